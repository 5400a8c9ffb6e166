// Command weeklyreport renders one weekly timesheet report per customer.
//
// # Usage
//
//	weeklyreport render --input worklogs.json --output-dir reports \
//	    --font-dir fonts --font-family Calibri --logo fonts/logo.png
//
//	weeklyreport week --reference-date 2025-09-10
//
// Flags can also be set through WEEKLYREPORT_<COMMAND>_<FLAG> environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lvillar/weeklyreport/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
