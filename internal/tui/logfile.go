package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns GIT_STORY_LOG_FILE when set, otherwise
// ~/.git-story/logs/git-story.log
func GetLogFilePath() string {
	if customPath := os.Getenv("GIT_STORY_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "git-story.log"
	}
	return filepath.Join(homeDir, ".git-story", "logs", "git-story.log")
}
