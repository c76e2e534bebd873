package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

func promptText(label, def string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: def,
	}

	value, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return value, nil
}

func promptSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(s string) error {
			if s == "" {
				return errors.New("value cannot be empty")
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return value, nil
}

func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errors.New("cancelled")
	}
	return fmt.Errorf("prompt: %w", err)
}
