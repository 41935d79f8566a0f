package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"wms-ops-agent/internal/config"
	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/pkg/events"
	pktNats "wms-ops-agent/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type EventsOptions struct {
	*RootOptions
	Type string
}

func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail the domain events agent mutations publish",
		Long: `Tail the domain events agent mutations publish to NATS.

Example:
  opsctl events --type ITEM_MOVED`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.NewZapLogger(cfg.App.LogFilePath, false)

			sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, log)
			if err != nil {
				return fmt.Errorf("connect nats: %w", err)
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			subject := pktNats.SubjectPrefix + ".>"
			if opts.Type != "" {
				subject = pktNats.Subject(opts.Type)
			}
			out := cmd.OutOrStdout()
			err = sub.Subscribe(ctx, subject, "", func(_ context.Context, event events.Event) error {
				return printEvent(out, event)
			})
			if err != nil {
				return err
			}

			color.New(color.FgHiBlack).Fprintf(out, "listening on %s, ctrl-c to stop\n", subject)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "only show one event type, e.g. ITEM_MOVED")

	return cmd
}

func printEvent(out io.Writer, event events.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	color.New(color.FgHiBlack).Fprintf(out, "%s ", event.Timestamp().Format("15:04:05"))
	color.New(color.FgGreen, color.Bold).Fprintf(out, "%-18s", event.EventType())
	fmt.Fprintf(out, " %s\n", payload)
	return nil
}
