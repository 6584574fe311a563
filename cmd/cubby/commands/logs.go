package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/marmos91/cubby/pkg/config"
	"github.com/spf13/cobra"
)

var (
	logsFollow bool
	logsLines  int
	logsSince  string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Tail server logs",
	Long: `Display and optionally follow the Cubby server logs.

This command reads the log file specified in the configuration. When the
server logs to stdout or stderr (the default), the daemon log file under
$XDG_STATE_HOME/cubby is used instead, since daemon mode captures the
server output there.

Examples:
  # Show last 100 lines (default)
  cubby logs

  # Show last 50 lines
  cubby logs -n 50

  # Follow logs in real-time
  cubby logs -f

  # Show logs since a specific time
  cubby logs --since "2024-01-15T10:00:00Z"

  # Combine options
  cubby logs -f -n 20`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 100, "Number of lines to show")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since timestamp (RFC3339 format)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile := serverLogFile(cfg)
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s\nThe server may not have started yet or is logging elsewhere", logFile)
	}

	var since time.Time
	if logsSince != "" {
		since, err = time.Parse(time.RFC3339, logsSince)
		if err != nil {
			return fmt.Errorf("invalid --since format (use RFC3339): %w", err)
		}
	}

	if logsFollow {
		return followLogs(logFile, logsLines, since)
	}
	return showLogs(logFile, logsLines, since)
}

// serverLogFile resolves the file the server is logging to. When logging
// goes to stdout or stderr, daemon mode redirects it to the state-dir log
// file, so that is where the output actually lands.
func serverLogFile(cfg *config.Config) string {
	switch cfg.Logging.Output {
	case "stdout", "stderr":
		return GetDefaultLogFile()
	default:
		return cfg.Logging.Output
	}
}

// showLogs prints the last n lines of the log file.
func showLogs(logFile string, n int, since time.Time) error {
	lines, err := readLogLines(logFile, since)
	if err != nil {
		return err
	}
	for _, line := range tailLines(lines, n) {
		fmt.Println(line)
	}
	return nil
}

// readLogLines reads the log file, dropping entries older than since
// when since is nonzero. Lines without a recognizable timestamp are kept.
func readLogLines(logFile string, since time.Time) ([]string, error) {
	file, err := os.Open(logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	// Room for long JSON log lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !since.IsZero() {
			if ts := lineTimestamp(line); !ts.IsZero() && ts.Before(since) {
				continue
			}
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	return lines, nil
}

// tailLines returns the last n entries of lines.
func tailLines(lines []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// followLogs prints the last initialLines entries, then watches the file
// and streams new content until interrupted.
func followLogs(logFile string, initialLines int, since time.Time) error {
	if err := showLogs(logFile, initialLines, since); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(logFile); err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}

	file, err := os.Open(logFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The backlog was already printed; stream new entries only.
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of log file: %w", err)
	}
	reader := bufio.NewReader(file)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Following %s (Ctrl+C to stop)...\n", logFile)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				printNewLines(reader)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// printNewLines drains the reader, printing whatever has been appended.
// Partial lines are printed as-is; the continuation follows on the next
// write event.
func printNewLines(r *bufio.Reader) {
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			fmt.Print(line)
		}
		if err != nil {
			return
		}
	}
}

// lineTimestamp extracts a timestamp from a log line. It understands plain
// text lines that start with an RFC3339 time and JSON lines carrying a
// "time" field. Returns the zero time when no timestamp is found.
func lineTimestamp(line string) time.Time {
	// RFC3339 prefix: 20 bytes with a Z suffix, 25 with a numeric offset.
	for _, n := range []int{20, 25} {
		if len(line) < n {
			break
		}
		if t, err := time.Parse(time.RFC3339, line[:n]); err == nil {
			return t
		}
	}
	return jsonTimeField(line)
}

// jsonTimeField pulls the value of a "time" key out of a JSON log line,
// e.g. {"time":"2024-01-15T10:30:45.123Z",...}.
func jsonTimeField(line string) time.Time {
	const key = `"time":"`
	idx := strings.Index(line, key)
	if idx < 0 {
		return time.Time{}
	}

	rest := line[idx+len(key):]
	end := strings.IndexByte(rest, '"')
	if end < 0 || end > 35 {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, rest[:end])
	if err != nil {
		return time.Time{}
	}
	return t
}
