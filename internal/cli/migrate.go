package cli

import (
	"fmt"

	"wms-ops-agent/internal/config"
	"wms-ops-agent/internal/model"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update every table the agent reads and writes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.open(config.Load())
			if err != nil {
				return err
			}
			n, err := Migrate(db)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", n)
			return nil
		},
	}
}

// Migrate runs AutoMigrate for all models and returns how many it covered.
func Migrate(db *gorm.DB) (int, error) {
	models := model.All()
	if err := db.AutoMigrate(models...); err != nil {
		return 0, fmt.Errorf("auto migrate: %w", err)
	}
	return len(models), nil
}
