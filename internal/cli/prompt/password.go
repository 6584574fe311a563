package prompt

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// Password asks for a masked password. A minLength of zero accepts any
// input.
func Password(label string, minLength int) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	if minLength > 0 {
		p.Validate = func(input string) error {
			if len(input) < minLength {
				return fmt.Errorf("password must be at least %d characters", minLength)
			}
			return nil
		}
	}

	answer, err := p.Run()
	return answer, wrapErr(err)
}

// PasswordWithConfirmation asks for a password twice and returns
// ErrPasswordMismatch when the entries differ.
func PasswordWithConfirmation(label, confirmLabel string, minLength int) (string, error) {
	password, err := Password(label, minLength)
	if err != nil {
		return "", err
	}

	confirm, err := Password(confirmLabel, 0)
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", ErrPasswordMismatch
	}

	return password, nil
}
