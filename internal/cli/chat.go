package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"wms-ops-agent/internal/bootstrap"
	"wms-ops-agent/internal/config"
	"wms-ops-agent/internal/dto"
	"wms-ops-agent/pkg/agent/tools"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type ChatOptions struct {
	*RootOptions
	Tenant  string
	User    string
	Name    string
	Message string
}

func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run one agent turn from the terminal",
		Long: `Run one agent turn through the same service the HTTP API uses.

Session state is kept per tenant and user, so repeating the command with
the same --tenant and --user continues the conversation.

Example:
  opsctl chat --tenant <id> --user <id> --message "where is 4567?"`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := opts.scope()
			if err != nil {
				return err
			}

			cfg := config.Load()
			db, err := opts.open(cfg)
			if err != nil {
				return err
			}
			container, err := bootstrap.NewContainer(db, cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() { _ = container.ConsumerService.Consume(ctx) }()

			res, err := container.OpsAgentService.Chat(ctx, scope, &dto.OpsAgentChatRequest{
				Message:  opts.Message,
				TenantId: scope.TenantId,
			})
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			printChat(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "tenant id (required)")
	cmd.Flags().StringVar(&opts.User, "user", "", "user id (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name recorded on notes and movements")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "message to send (required)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func (o *ChatOptions) scope() (tools.Scope, error) {
	tenantId, err := uuid.Parse(o.Tenant)
	if err != nil {
		return tools.Scope{}, fmt.Errorf("invalid --tenant: %w", err)
	}
	userId, err := uuid.Parse(o.User)
	if err != nil {
		return tools.Scope{}, fmt.Errorf("invalid --user: %w", err)
	}
	if strings.TrimSpace(o.Message) == "" {
		return tools.Scope{}, fmt.Errorf("--message must not be blank")
	}
	return tools.Scope{TenantId: tenantId, UserId: userId, UserName: o.Name}, nil
}

func printChat(out io.Writer, res *dto.OpsAgentChatResponse) {
	dim := color.New(color.FgHiBlack)
	for _, call := range res.ToolCalls {
		c := color.New(color.FgCyan)
		if call.Outcome != "ok" {
			c = color.New(color.FgYellow)
		}
		c.Fprintf(out, "  %s -> %s", call.Name, call.Outcome)
		dim.Fprintf(out, " (%dms)\n", call.DurationMs)
	}
	if len(res.ToolCalls) > 0 {
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, res.Reply)
	fmt.Fprintln(out)

	dim.Fprintf(out, "session %s, %d round(s)\n", res.SessionId, res.Rounds)
	if res.PendingDisambiguation {
		color.New(color.FgYellow).Fprintln(out, "waiting for a choice between candidates")
	}
	if res.PendingDraft != "" {
		color.New(color.FgYellow).Fprintf(out, "draft %s waiting for confirmation\n", res.PendingDraft)
	}
}
