package utils

import (
	"fmt"
	"os"
	"os/exec"
)

// BrowserEnv names a command to run instead of the platform's URL opener
const BrowserEnv = "GIT_STORY_BROWSER"

// OpenBrowser opens url in the default browser
func OpenBrowser(url string) error {
	cmd := browserCommand(url)
	if custom := os.Getenv(BrowserEnv); custom != "" {
		cmd = exec.Command(custom, url)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
