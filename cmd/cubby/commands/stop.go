package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	stopPidFile string
	stopForce   bool
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Cubby server",
	Long: `Stop a running Cubby server.

The server PID is read from the PID file and sent SIGTERM, which lets
in-flight requests drain. --force sends SIGKILL instead.

Examples:
  # Graceful stop via the default PID file
  cubby stop

  # Use a different PID file
  cubby stop --pid-file /var/run/cubby.pid

  # Kill without waiting for shutdown
  cubby stop --force`,
	RunE: runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopPidFile, "pid-file", "", "Path to the PID file (default: $XDG_STATE_HOME/cubby/cubby.pid)")
	stopCmd.Flags().BoolVarP(&stopForce, "force", "f", false, "Send SIGKILL instead of SIGTERM")
}

func runStop(cmd *cobra.Command, args []string) error {
	pidPath := stopPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	pid, err := readPidFile(pidPath)
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}

	sig, name := syscall.SIGTERM, "SIGTERM"
	if stopForce {
		sig, name = syscall.SIGKILL, "SIGKILL"
	}
	fmt.Printf("Sending %s to process %d...\n", name, pid)

	err = process.Signal(sig)
	switch {
	case errors.Is(err, os.ErrProcessDone):
		fmt.Println("Server already stopped")
		_ = os.Remove(pidPath)
		return nil
	case err != nil:
		return fmt.Errorf("failed to send signal: %w", err)
	}

	if stopForce {
		fmt.Println("Server terminated")
	} else {
		fmt.Println("Shutdown signal sent. Server will stop gracefully.")
	}
	return nil
}

// readPidFile reads and parses the server PID file.
func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("PID file not found: %s\n\nIs the server running?", path)
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", data)
	}
	return pid, nil
}
