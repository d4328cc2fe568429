package main

import (
	"github.com/KYVENetwork/dlt-sink/cmd/dltsink/commands"
	"github.com/rs/zerolog"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	commands.Execute()
}
