package commands

import (
	"fmt"

	l "github.com/KYVENetwork/dlt-sink/loader"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/spf13/cobra"
)

func init() {
	statementsCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	rootCmd.AddCommand(statementsCmd)
}

var statementsCmd = &cobra.Command{
	Use:   "statements",
	Short: "Print the INSERT and COPY statements for the configured table",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		insert, copyStatement, err := l.Statements(config)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to render statements")
			return
		}

		fmt.Printf("row:  %s\n", insert)
		fmt.Printf("bulk: %s\n", copyStatement)
	},
}
