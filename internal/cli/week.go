package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvillar/weeklyreport/timesheet"
)

type weekParams struct {
	weekOffset    int
	referenceDate string
}

func newWeekCommand() *cobra.Command {
	params := &weekParams{}
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the reporting week",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return checkEnvironmentVariables(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := referenceDate(params.referenceDate, time.Now())
			if err != nil {
				return err
			}
			w := timesheet.ReportingWeek(ref, params.weekOffset)
			fmt.Fprintln(cmd.OutOrStdout(), w.Label())
			return nil
		},
	}
	cmd.Flags().IntVar(&params.weekOffset, "week-offset", timesheet.DefaultWeekOffset, "set how many days the reporting week lags behind the reference date")
	cmd.Flags().StringVar(&params.referenceDate, "reference-date", "", "set the reference date (YYYY-MM-DD, default today)")
	return cmd
}
