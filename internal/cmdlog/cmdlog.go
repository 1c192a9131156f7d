package cmdlog

import (
	"time"

	"shredder/internal/logging"
	"shredder/internal/metrics"
)

// Run executes a subcommand, counting it and logging how it ended.
func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f()
	elapsed := time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		metrics.IncCommandError(cmd)
		logging.Error(cmd+"_error", map[string]any{"error": err.Error(), "elapsed": elapsed})
	} else {
		logging.Info(cmd+"_ok", map[string]any{"elapsed": elapsed})
	}
	return err
}
