package commands

import (
	"fmt"

	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/spf13/cobra"
)

func init() {
	initCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	initCmd.Flags().BoolVarP(&y, "yes", "y", false, "keep the template defaults without prompting")

	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default config",
	Run: func(cmd *cobra.Command, args []string) {
		values := map[string]string{}
		if !y {
			values["database.connection-url"] = utils.PromptInputWithDefault(
				"\u001B[36mConnection URL\u001B[0m [postgres://localhost:5432/postgres?sslmode=disable]: ",
				"postgres://localhost:5432/postgres?sslmode=disable",
			)
			values["sink.table-name"] = utils.PromptInputWithDefault("\u001B[36mTable name\u001B[0m [messages]: ", "messages")
			if utils.PromptConfirm("Write records row by row instead of COPY batches? [y/N]: ") {
				values["sink.mode"] = utils.ModeRow
			}
		}

		if err := utils.InitConfig(configPath, values); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to initialize config")
			return
		}

		fmt.Printf("\nSuccessfully initialized config at \033[36m%s\033[0m!\n", configPath)

		fmt.Println("\nTo create the table and start the sink, run: \n" +
			"\033[32m" +
			"dltsink initialize\n" +
			"dltsink start\n" +
			"\033[0m")
	},
}
