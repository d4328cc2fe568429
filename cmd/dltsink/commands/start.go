package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	l "github.com/KYVENetwork/dlt-sink/loader"
	"github.com/KYVENetwork/dlt-sink/utils"
	"github.com/spf13/cobra"
)

func init() {
	startCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sink",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		if config.Metrics.Enabled {
			utils.StartPrometheus(config.Metrics.Port)
		}

		telemetry := utils.NewTelemetry(config.Telemetry)
		defer telemetry.Close()

		// Required for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		shutdownChannel := make(chan os.Signal, 1)
		signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

		// Handle shutdown
		go func() {
			sigCount := 0
			for {
				<-shutdownChannel
				sigCount++
				if sigCount == 1 {
					// First signal, attempt graceful shutdown
					cancel()
					logger.Info().Msg("Exiting...")
					logger.Warn().Msg("Buffered records are being written, please wait until dltsink exited!")
				} else if sigCount == 2 {
					// Second signal, force exit
					logger.Warn().Msg("Received second signal, forcing exit...")
					os.Exit(1)
				}
			}
		}()

		loader, err := l.SetupLoader(ctx, config)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to set up loader")
			return
		}

		startTime := time.Now().Unix()
		telemetry.Track("start", map[string]interface{}{
			"mode":   config.Sink.Mode,
			"source": config.Source.Type,
		})

		if err := loader.Start(ctx); err != nil {
			logger.Error().Str("err", err.Error()).Msg("sink finished with errors")
		}

		telemetry.Track("stop", map[string]interface{}{
			"mode":     config.Sink.Mode,
			"duration": time.Now().Unix() - startTime,
		})
		logger.Info().Msg(fmt.Sprintf("Finished! Took %d seconds", time.Now().Unix()-startTime))
	},
}
