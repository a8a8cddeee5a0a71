package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	cancel()
	if err != nil {
		a.logger().Error("command failed", zap.Error(err))
		_ = a.logger().Sync()
		os.Exit(1)
	}
	_ = a.logger().Sync()
}
