// Package cli implements the weeklyreport command line.
package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lvillar/weeklyreport/logging"
)

type rootParams struct {
	logLevel  string
	logFormat string
}

// NewCommand returns the weeklyreport root command with all subcommands.
func NewCommand() *cobra.Command {
	params := &rootParams{}
	root := &cobra.Command{
		Use:   "weeklyreport",
		Short: "Render weekly customer timesheet reports",
		Long: `Render weekly customer timesheet reports as PDF.

Worklog rows are read from a JSON export, grouped by customer and rendered into one
report per customer for the reporting week.

Every flag can also be set through the environment: WEEKLYREPORT_<COMMAND>_<FLAG>,
e.g. WEEKLYREPORT_RENDER_FONT_DIR for 'render --font-dir', and WEEKLYREPORT_LOG_LEVEL
for the global --log-level.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&params.logLevel, "log-level", "info", "set log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&params.logFormat, "log-format", "text", "set log format (text, json, json-pretty)")

	root.AddCommand(newRenderCommand(params), newWeekCommand())
	return root
}

// logger builds the run logger. Every entry carries the run id.
func (p *rootParams) logger(cmd *cobra.Command) (logging.Logger, string, error) {
	level, err := logging.ParseLevel(p.logLevel)
	if err != nil {
		return nil, "", err
	}
	l := logging.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetFormatter(logging.Formatter(p.logFormat))
	l.SetLevel(level)

	runID := uuid.NewString()
	return l.WithFields(map[string]any{"run_id": runID}), runID, nil
}
