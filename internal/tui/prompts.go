package tui

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/utils"
)

// ErrInteractiveDisabled is returned when stdin is not a terminal or prompts
// are turned off with GIT_STORY_NON_INTERACTIVE
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

func checkInteractiveAllowed() error {
	if !utils.IsInteractive() {
		return ErrInteractiveDisabled
	}
	return nil
}

func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return storyerrors.ErrInterrupted
	}
	return err
}

// Ask reads a line, returning defaultValue when the user just hits enter
func Ask(prompt, defaultValue string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	var answer string
	input := &survey.Input{
		Message: prompt,
		Default: defaultValue,
	}
	if err := survey.AskOne(input, &answer); err != nil {
		return "", promptError(err)
	}
	return answer, nil
}

// AskRequired asks until a non-empty answer is given
func AskRequired(prompt string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}

	var answer string
	input := &survey.Input{Message: prompt}
	if err := survey.AskOne(input, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", promptError(err)
	}
	return answer, nil
}

// Confirm asks a yes/no question
func Confirm(prompt string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	answer := defaultValue
	confirm := &survey.Confirm{
		Message: prompt,
		Default: defaultValue,
	}
	if err := survey.AskOne(confirm, &answer); err != nil {
		return false, promptError(err)
	}
	return answer, nil
}
