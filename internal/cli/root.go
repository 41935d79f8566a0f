// Package cli is the opsctl operator command line.
package cli

import (
	"fmt"

	"wms-ops-agent/internal/config"
	"wms-ops-agent/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DSN string
}

// NewRootCommand creates the opsctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "opsctl",
		Short: "Operator tools for the warehouse ops agent",
		// main prints the error once
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "postgres DSN (defaults to DB_CONNECTION_STRING)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewChatCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))

	return cmd
}

func (o *RootOptions) open(cfg *config.Config) (*gorm.DB, error) {
	dsn := o.DSN
	if dsn == "" {
		dsn = cfg.Database.Connection
	}
	if dsn == "" {
		return nil, fmt.Errorf("no database: pass --dsn or set DB_CONNECTION_STRING")
	}
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
