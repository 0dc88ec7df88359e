// winery is the operator tool for the fermentation sample pipeline.
//
// Usage:
//
//	winery migrate
//	winery create --mass <kg> --brix <°Brix> --density <g/mL> --vintage <year> [--start <rfc3339>] [--status ACTIVE|LAG] [--temp-min <°C> --temp-max <°C>]
//	winery status --fermentation <uuid> --to <status>
//	winery record --fermentation <uuid> --type <SUGAR|TEMPERATURE|DENSITY> --value <number> [--at <rfc3339>]
//	winery import --fermentation <uuid> --source <path|s3://bucket/key> [--dry-run]
//	winery transitions
//	winery health
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/winery/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
