// Package main is the entry point of the text analyzer.
//
//	analyzer                     run the web UI (same as "analyzer serve")
//	analyzer analyze -p "..."    summarize once and write summary_result.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
