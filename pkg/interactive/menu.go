// Package interactive provides terminal prompts for the interactive mode.
package interactive

import (
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
)

const exitChoice = "Exit"

// MenuOption represents a menu item with its associated action
type MenuOption struct {
	Name        string
	Description string
	Action      func() error
}

var (
	// ErrExit is returned when the user chooses to exit
	ErrExit = errors.New("exit")
	// ErrInvalidSelection is returned when an invalid menu option is selected
	ErrInvalidSelection = errors.New("invalid selection")
)

// ShowMainMenu displays the main menu and runs the selected option.
func ShowMainMenu(options []MenuOption) error {
	choices, optionMap := menuChoices(options)

	var selected string
	prompt := &survey.Select{
		Message:  "What would you like to do?",
		Options:  choices,
		PageSize: len(choices),
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return ErrExit
	}

	if selected == exitChoice {
		return ErrExit
	}

	if option, ok := optionMap[selected]; ok {
		return option.Action()
	}

	return ErrInvalidSelection
}

func menuChoices(options []MenuOption) ([]string, map[string]MenuOption) {
	choices := make([]string, 0, len(options)+1)
	optionMap := make(map[string]MenuOption, len(options))

	for _, opt := range options {
		choice := fmt.Sprintf("%s - %s", opt.Name, opt.Description)
		choices = append(choices, choice)
		optionMap[choice] = opt
	}

	return append(choices, exitChoice), optionMap
}

// SelectReportTypes asks which report types to work on. All are preselected.
func SelectReportTypes(available []string) ([]string, error) {
	selected := make([]string, 0, len(available))
	prompt := &survey.MultiSelect{
		Message: "Report types:",
		Options: available,
		Default: available,
	}

	if err := survey.AskOne(prompt, &selected, survey.WithValidator(survey.MinItems(1))); err != nil {
		return nil, fmt.Errorf("selecting report types: %w", err)
	}

	return selected, nil
}

// AskURL prompts for the page to audit, prefilled with current.
func AskURL(current string) (string, error) {
	url := current
	prompt := &survey.Input{
		Message: "URL to audit:",
		Default: current,
	}

	if err := survey.AskOne(prompt, &url, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("reading url: %w", err)
	}

	return url, nil
}

// PauseForEnter waits for the user to press Enter
func PauseForEnter(out io.Writer) {
	fmt.Fprintln(out, "\nPress Enter to continue...")
	_, _ = fmt.Scanln()
}

// Confirm asks for user confirmation
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)
	return confirmed
}
