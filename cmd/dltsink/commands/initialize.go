package commands

import (
	"context"
	"fmt"

	"github.com/KYVENetwork/dlt-sink/destinations"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/spf13/cobra"
)

var script string

func init() {
	initializeCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	initializeCmd.Flags().StringVar(&script, "script", "", "\"true\" for the default table or the path of an SQL script (defaults to sink.initialize)")

	initializeCmd.Flags().BoolVarP(&y, "yes", "y", false, "automatically answer yes for all questions")

	rootCmd.AddCommand(initializeCmd)
}

var initializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Create the destination table",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		columns, err := schema.ParseColumns(config.Sink.EffectiveColumns())
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("invalid columns")
			return
		}

		if !y && !utils.PromptConfirm(fmt.Sprintf("\nThis runs the init script against table %s and may drop it. Continue? [y/N]: ", config.Sink.TableName)) {
			return
		}

		initialize := config.Sink.Initialize
		if cmd.Flags().Changed("script") {
			initialize = script
		} else if initialize == "false" {
			initialize = "true"
		}

		ctx := context.Background()
		db, err := destinations.OpenDB(ctx, config.Database)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to connect")
			return
		}
		defer db.Close()

		initializer := destinations.NewInitializer(db, config.Sink.TableName, schema.ColumnNames(columns))
		if err := initializer.Run(ctx, initialize); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to initialize table")
			return
		}
	},
}
