package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"b2bizzio/internal/app"
)

func main() {
	logging, err := app.NewLogging("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	logger := logging.Logger
	defer func() {
		_ = logger.Sync()
		_ = logging.Notices.Sync()
	}()

	root := newRootCmd(logging)
	if err := root.Execute(); err != nil {
		var exitErr exitError
		if errors.As(err, &exitErr) {
			if !exitErr.silent && exitErr.message != "" {
				logger.Error(exitErr.message)
			}
			_ = logger.Sync()
			os.Exit(exitErr.code)
		}
		logger.Fatal("fatal error", zap.Error(err))
	}
}
