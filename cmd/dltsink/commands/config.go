package commands

import (
	"fmt"

	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective config including environment overrides",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := utils.LoadSettings(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		out, err := utils.RenderSettings(settings)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to render config")
			return
		}
		fmt.Print(out)
	},
}
