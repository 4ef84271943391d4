package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/cli"
	"github.com/rajesharjun-oss/Remittance-Schedule-Tool/internal/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad input and configuration from service and export failures.
func exitCode(err error) int {
	switch common.CodeOf(err) {
	case common.CodeConfig, common.CodeValidation:
		return 2
	case common.CodeServiceUnavailable:
		return 3
	}
	return 1
}
