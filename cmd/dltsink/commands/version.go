package commands

import (
	"fmt"

	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dlt-sink version, commit and Go toolchain",
	Run: func(cmd *cobra.Command, args []string) {
		build := utils.CurrentBuild()
		fmt.Printf("dlt-sink %s\n", build.Version)
		fmt.Printf("commit:   %s\n", build.Commit)
		fmt.Printf("go:       %s\n", build.GoVersion)
		fmt.Printf("platform: %s\n", build.Platform)
	},
}
