package cli

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/attrgrid/internal/app"
	"github.com/vk/attrgrid/internal/hcl_adapter"
)

// addValueFlags registers the flags that feed initial values.
func addValueFlags(cmd *cobra.Command) {
	cmd.Flags().String("values", "", "YAML file of initial attribute values.")
	cmd.Flags().StringArray("set", nil, "Assign an initial value as name=value (repeatable). Values are JSON or plain strings.")
}

// newApp resolves the configuration and starts the application.
func newApp(v *viper.Viper, errW io.Writer, sheets []string) (*app.App, error) {
	cfg, err := loadConfig(v, sheets)
	if err != nil {
		return nil, err
	}
	return app.New(errW, cfg, hcl_adapter.NewLoader())
}

func newEvalCommand(v *viper.Viper, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [SHEET...]",
		Short: "Load sheets and print the attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(v, errW, args)
			if err != nil {
				return err
			}
			return a.Eval(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("output", "o", "json", "Output format: 'json' lists every attribute, 'hcl' writes present values as a values block.")
	addValueFlags(cmd)
	return cmd
}

func newOrderCommand(v *viper.Viper, errW io.Writer) *cobra.Command {
	var seeds []string
	cmd := &cobra.Command{
		Use:   "order [SHEET...] --seed NAME",
		Short: "Print the recalculation order for changes to the given attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seeds) == 0 {
				return usageError(errors.New("at least one --seed is required"))
			}
			a, err := newApp(v, errW, args)
			if err != nil {
				return err
			}
			return a.Order(cmd.OutOrStdout(), seeds...)
		},
	}
	cmd.Flags().StringSliceVar(&seeds, "seed", nil, "Attribute whose change is simulated (repeatable).")
	addValueFlags(cmd)
	return cmd
}

func newServeCommand(v *viper.Viper, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [SHEET...]",
		Short: "Serve the attribute store over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(v, errW, args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}
	cmd.Flags().String("listen", ":8080", "Address of the HTTP server.")
	cmd.Flags().Bool("watch", false, "Reload the sheets when their files change.")
	cmd.Flags().Duration("debounce", 0, "Quiet period before a file change triggers a reload (default 200ms).")
	cmd.Flags().String("feed-url", "", "socket.io endpoint streaming assignments, e.g. http://host:3000/socket.io/.")
	cmd.Flags().String("feed-namespace", "/", "socket.io namespace of the feed.")
	cmd.Flags().String("feed-event", "set", "Event name carrying assignments.")
	addValueFlags(cmd)
	return cmd
}
