package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/benchtop/rtm3004-go/pkg/rtm3004"
	"github.com/benchtop/rtm3004-go/pkg/scpi"
	"github.com/benchtop/rtm3004-go/pkg/trace"
)

// openScope connects to the configured instrument. The returned cleanup
// closes the session and any trace file; call it even after errors from
// the scope.
func openScope(ctx context.Context, cmd *cobra.Command) (*rtm3004.Scope, func(), error) {
	if err := loadConfig(cmd); err != nil {
		return nil, nil, err
	}
	if resource == "" {
		return nil, nil, fmt.Errorf("no instrument resource: pass --resource or set it in ~/.rtmctl.yaml")
	}

	var loggers []trace.Logger
	var fileLogger *trace.FileLogger
	if traceFile != "" {
		fl, err := trace.NewFileLogger(traceFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open trace file: %w", err)
		}
		fileLogger = fl
		loggers = append(loggers, fl)
	}
	if verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, trace.NewSlogAdapter(slog.New(handler)))
	}

	opts := []scpi.Option{scpi.WithTimeout(timeout)}
	if len(loggers) > 0 {
		opts = append(opts, scpi.WithLogger(trace.NewMultiLogger(loggers...)))
	}

	scope, err := rtm3004.Open(ctx, resource, opts...)
	if err != nil {
		if fileLogger != nil {
			fileLogger.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		scope.Close()
		if fileLogger != nil {
			fileLogger.Close()
		}
	}
	return scope, cleanup, nil
}
