package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks err as a usage problem (exit code 2).
func usageError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: 2, Message: err.Error()}
}

// Execute runs the command line in args. Results are written to outW, logs
// and diagnostics to errW.
func Execute(ctx context.Context, outW, errW io.Writer, args []string) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the attrgrid command tree. Every call gets its own
// viper instance, so commands can be built repeatedly in one process.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "attrgrid",
		Short: "Reactive attribute sheets",
		Long: `attrgrid loads attribute sheets written in HCL, keeps derived attributes
up to date when their inputs change and exposes the result on the command
line or over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v)
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.PersistentFlags().String("config", "", "config file (default .attrgrid.yaml in the working directory)")
	root.PersistentFlags().String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().String("log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newEvalCommand(v, errW),
		newOrderCommand(v, errW),
		newServeCommand(v, errW),
	)
	slog.Debug("CLI command tree built.")
	return root
}
