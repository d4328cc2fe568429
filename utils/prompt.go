package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

var promptReader = bufio.NewReader(os.Stdin)

func PromptConfirm(prompt string) bool {
	fmt.Printf("\u001B[36m%s\u001B[0m", prompt)
	answer, err := promptReader.ReadString('\n')
	if err != nil && answer == "" {
		logger.Error().Str("err", err.Error()).Msg("failed to read user input")
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}

func PromptInputWithDefault(prompt string, defaultValue string) string {
	fmt.Print(prompt)
	input, _ := promptReader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}
