package cli

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/lettersync/cli/internal/errors"
)

const (
	recoveryRestart = "Restart the gateway session and retry"
	recoveryAbort   = "Abort"
)

// selectLetters asks the user which of the locally modified letters to push.
func selectLetters(modified []string) ([]string, error) {
	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Select letters to push:",
		Options: modified,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, errors.NewGenericError("letter selection aborted", err)
	}
	return selected, nil
}

// selectRecovery asks how to proceed after a gateway session failure. It
// returns true when the user wants the session restarted and the command
// retried.
func selectRecovery(message string) (bool, error) {
	choice := recoveryAbort
	prompt := &survey.Select{
		Message: message,
		Options: []string{recoveryRestart, recoveryAbort},
		Default: recoveryRestart,
	}
	if err := survey.AskOne(prompt, &choice, survey.WithValidator(survey.Required)); err != nil {
		return false, errors.NewGenericError("recovery selection aborted", err)
	}
	return choice == recoveryRestart, nil
}
