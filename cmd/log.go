package main

import (
	"fmt"
	"strings"

	"tdrs/internal/eventlog"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log <error|alert> <message> [key=value...]",
	Short: "Report one event to the backend log endpoint",
	Long: `Report one event to <BACKEND_URL>/logs/. Extra key=value arguments are
added to the event context. Delivery is best effort: failures are only visible
with LOG_LEVEL=debug.

Examples:
  tdrs log error "upload failed" file=report.txt
  tdrs log alert "button clicked" --user a@b.com`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringP("user", "u", "", "username added to every event")
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, err := parseContext(args[2:])
	if err != nil {
		return err
	}

	var base eventlog.Context
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		base = eventlog.Context{"username": user}
	}

	l := eventlog.New(eventlog.Config{BackendURL: cfg.BackendURL}, base, eventlog.WithLogger(logger))
	if err := l.Log(eventlog.Severity(args[0]), args[1], ctx); err != nil {
		return err
	}
	l.Wait()
	return nil
}

func parseContext(pairs []string) (eventlog.Context, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	ctx := make(eventlog.Context, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid context %q, expected key=value", p)
		}
		ctx[k] = v
	}
	return ctx, nil
}
