package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View logs",
	Long: `View daygrid logs.

Displays recent log entries. Use --follow to stream logs in real-time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tail, _ := cmd.Flags().GetInt("tail")
		follow, _ := cmd.Flags().GetBool("follow")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logDir := cfg.ExpandedLogPath()
		out := cmd.OutOrStdout()

		if follow {
			return followLogs(out, logDir, tail)
		}
		return showLogs(out, logDir, tail)
	},
}

func init() {
	logsCmd.Flags().IntP("tail", "n", 50, "Number of log lines to show")
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	rootCmd.AddCommand(logsCmd)
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Level     string    `json:"level"`
	Time      time.Time `json:"time"`
	Message   string    `json:"message"`
	Component string    `json:"component,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func showLogs(out io.Writer, logDir string, n int) error {
	files, err := logging.LogFiles(logDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No log files found.")
		return nil
	}
	for _, line := range readLastLines(files, n) {
		fmt.Fprintln(out, formatLogLine(line))
	}
	return nil
}

func followLogs(out io.Writer, logDir string, initialLines int) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	if initialLines > 0 {
		if err := showLogs(out, logDir, initialLines); err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(logDir); err != nil {
		return fmt.Errorf("watching log dir: %w", err)
	}

	currentFile := newestLog(logDir)
	var file *os.File
	var reader *bufio.Reader
	openCurrent := func() {
		if file != nil {
			_ = file.Close()
			file, reader = nil, nil
		}
		if currentFile == "" {
			return
		}
		f, err := os.Open(currentFile)
		if err != nil {
			return
		}
		_, _ = f.Seek(0, io.SeekEnd)
		file, reader = f, bufio.NewReader(f)
	}
	openCurrent()
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()

	fmt.Fprintln(out, "--- Following logs (Ctrl+C to exit) ---")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Date rollover starts a new file.
			if newest := newestLog(logDir); newest != currentFile {
				currentFile = newest
				openCurrent()
				if reader != nil {
					_, _ = file.Seek(0, io.SeekStart)
				}
			}
			if event.Op&fsnotify.Write == fsnotify.Write && reader != nil {
				for {
					line, err := reader.ReadString('\n')
					if err != nil {
						break
					}
					fmt.Fprintln(out, formatLogLine(strings.TrimSuffix(line, "\n")))
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}

func newestLog(logDir string) string {
	files, err := logging.LogFiles(logDir)
	if err != nil || len(files) == 0 {
		return ""
	}
	return files[0]
}

// readLastLines returns the last n lines across files, which are ordered
// newest first.
func readLastLines(files []string, n int) []string {
	var lines []string
	for _, file := range files {
		if len(lines) >= n {
			break
		}
		fileLines := readFileLines(file)
		remaining := n - len(lines)
		if len(fileLines) <= remaining {
			lines = append(fileLines, lines...)
		} else {
			lines = append(fileLines[len(fileLines)-remaining:], lines...)
		}
	}
	return lines
}

func readFileLines(path string) []string {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func formatLogLine(line string) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line
	}

	var b strings.Builder
	b.WriteString(entry.Time.Format("15:04:05"))
	b.WriteString(" ")
	b.WriteString(formatLogLevel(entry.Level))
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)
	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%s", entry.Error)
	}
	return b.String()
}

func formatLogLevel(level string) string {
	switch level {
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	case "":
		return "???"
	default:
		if len(level) < 3 {
			return strings.ToUpper(level)
		}
		return strings.ToUpper(level[:3])
	}
}
