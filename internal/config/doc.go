// Package config loads git-story settings.
//
// Settings are merged from, in increasing priority:
//   - built-in defaults
//   - config/story.yml in the repository, under the "story" key
//   - GIT_STORY_* environment variables and the usual token variables
//     (PIVOTAL_TOKEN, SEMAPHORE_AUTH_TOKEN, GITHUB_TOKEN, GITLAB_TOKEN)
package config
