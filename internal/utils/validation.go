package utils

import (
	"os"
)

// IsInteractive checks if we're in an interactive terminal
func IsInteractive() bool {
	// Allow forcing non-interactive mode via environment variable
	if os.Getenv("GIT_STORY_NON_INTERACTIVE") != "" || os.Getenv("GIT_STORY_TEST_NO_INTERACTIVE") != "" {
		return false
	}

	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
