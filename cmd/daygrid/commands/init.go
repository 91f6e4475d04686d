package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/config"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create configuration file",
	Long: `Write the default configuration to ~/.config/daygrid/config.yaml, or
to the file named by --config.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GlobalConfigPath()
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(out, "%s %s\n", warnStyle.Render("Config already exists:"), configPath)
		if !isInteractive() {
			fmt.Fprintln(out, "Use --force to overwrite.")
			return nil
		}
		fmt.Fprint(out, "Overwrite? [y/N]: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	cfg := config.Default()
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := config.Write(cfg, configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s %s\n\n", successStyle.Render("Created config:"), configPath)
	fmt.Fprintln(out, headingStyle.Render("Next steps:"))
	fmt.Fprintln(out, "  1. Run 'daygrid countdown' or 'daygrid habit' in a terminal to set up a tracker")
	fmt.Fprintln(out, "  2. Run 'daygrid watch' to keep standing surfaces current")
	fmt.Fprintln(out, "  3. Run 'daygrid show habit' to print a standing surface")
	fmt.Fprintln(out)
	return nil
}
