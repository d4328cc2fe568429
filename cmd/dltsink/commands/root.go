package commands

import (
	"fmt"

	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/spf13/cobra"
)

var (
	configPath string
	y          bool
	logger     = utils.DltLogger("cmd")
)

var rootCmd = &cobra.Command{
	Use:   "dltsink",
	Short: "Stream records into a PostgreSQL table, row by row or in COPY batches",
	Long: `dlt-sink reads records from stdin, a file, NATS, Kafka or a polled query and writes them to one PostgreSQL table.

In row mode every record becomes one INSERT. In bulk mode records are grouped by payload kind and written with COPY
once a group reaches sink.batch-size, has been idle for sink.idle-timeout, or the process shuts down.

Run "dltsink init" to create a config, then "dltsink start".`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		panic(fmt.Errorf("failed to execute root command: %w", err))
	}
}
