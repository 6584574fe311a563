package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/marmos91/cubby/internal/cli/health"
	"github.com/marmos91/cubby/internal/cli/output"
	"github.com/marmos91/cubby/internal/cli/timeutil"
	"github.com/spf13/cobra"
)

var (
	statusOutput  string
	statusPidFile string
	statusAPIPort int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the current status of the Cubby server.

This command checks the server health by calling the readiness endpoint
and displays status, uptime, and catalog/storage health information.

Examples:
  # Check status (uses default settings)
  cubby status

  # Check status with custom API port
  cubby status --api-port 9080

  # Output as JSON
  cubby status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/cubby/cubby.pid)")
	statusCmd.Flags().IntVar(&statusAPIPort, "api-port", 8080, "API server port")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// ServerStatus represents the server status information.
type ServerStatus struct {
	Running   bool              `json:"running" yaml:"running"`
	PID       int               `json:"pid,omitempty" yaml:"pid,omitempty"`
	Message   string            `json:"message" yaml:"message"`
	StartedAt string            `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Uptime    string            `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Healthy   bool              `json:"healthy" yaml:"healthy"`
	Checks    map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	status := ServerStatus{
		Running: false,
		Healthy: false,
		Message: "Server is not running",
	}

	pidPath := statusPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}
	if pid, ok := livePid(pidPath); ok {
		status.Running = true
		status.PID = pid
	}

	// Check readiness endpoint (works for both daemon and foreground mode)
	healthURL := fmt.Sprintf("http://localhost:%d/health/ready", statusAPIPort)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(healthURL)
	if err == nil {
		defer func() { _ = resp.Body.Close() }()

		var healthResp health.Response
		if err := json.NewDecoder(resp.Body).Decode(&healthResp); err == nil {
			status.Running = true
			status.Healthy = healthResp.Healthy()
			status.StartedAt = healthResp.StartedAt.Format(time.RFC3339)
			status.Uptime = healthResp.Uptime
			status.Checks = healthResp.Checks
			if status.Healthy {
				status.Message = "Server is running and healthy"
			} else {
				status.Message = fmt.Sprintf("Server is running but unhealthy: %s", failedChecks(healthResp.Checks))
			}
		} else {
			status.Running = true
			status.Message = "Server is running but health response invalid"
		}
	} else if status.Running {
		// PID file says running but health check failed
		status.Message = "Server process exists but health check failed"
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

// livePid reports the process ID recorded in the PID file, if that
// process is still alive.
func livePid(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, false
	}
	// On Unix FindProcess always succeeds; signal 0 probes for liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return 0, false
	}
	return pid, true
}

// capitalize uppercases the first letter of an ASCII label.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// failedChecks summarizes the checks that did not report ok.
func failedChecks(checks map[string]string) string {
	var failed []string
	for name, result := range checks {
		if result != "ok" {
			failed = append(failed, fmt.Sprintf("%s: %s", name, result))
		}
	}
	sort.Strings(failed)
	if len(failed) == 0 {
		return "unknown"
	}
	return strings.Join(failed, "; ")
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("Cubby Server Status")
	fmt.Println("===================")
	fmt.Println()

	if status.Running {
		if status.Healthy {
			fmt.Printf("  Status:     \033[32m● Running\033[0m\n")
		} else {
			fmt.Printf("  Status:     \033[33m● Running (unhealthy)\033[0m\n")
		}
		if status.PID != 0 {
			fmt.Printf("  PID:        %d\n", status.PID)
		}
		if status.StartedAt != "" {
			fmt.Printf("  Started:    %s\n", timeutil.FormatTime(status.StartedAt))
		}
		if status.Uptime != "" {
			fmt.Printf("  Uptime:     %s\n", timeutil.FormatUptime(status.Uptime))
		}
		if len(status.Checks) > 0 {
			names := make([]string, 0, len(status.Checks))
			for name := range status.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-11s %s\n", capitalize(name)+":", status.Checks[name])
			}
		}
	} else {
		fmt.Printf("  Status:     \033[31m○ Stopped\033[0m\n")
	}

	fmt.Println()
	fmt.Printf("  %s\n", status.Message)
	fmt.Println()
}
