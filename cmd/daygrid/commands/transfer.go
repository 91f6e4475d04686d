package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write every stored value as JSON",
	Long: `Write the whole store as a JSON object of key to value, the same shape
as a keychain dump of the legacy widgets. Use - for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Load values from a JSON dump",
	Long: `Load a JSON object of key to value into the store in one transaction.
Dates and themes are validated and invalid entries are skipped. Use -
for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	if args[0] == "-" {
		return e.db.Export(cmd.OutOrStdout())
	}

	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := e.db.Export(out); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported store to %s\n", args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	var in io.Reader = cmd.InOrStdin()
	source := "stdin"
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening dump: %w", err)
		}
		defer f.Close()
		in = f
		source = args[0]
	}

	res, err := e.db.Import(in, source)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d values from %s\n", res.Imported, source)
	if len(res.Skipped) > 0 {
		sort.Strings(res.Skipped)
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d invalid values: %s\n", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	return nil
}
