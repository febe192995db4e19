package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassphrase returns BAZAAR_PASSPHRASE when set, otherwise prompts on the
// terminal without echo. confirm asks for the passphrase twice.
func readPassphrase(prompt string, confirm bool) (string, error) {
	if p := os.Getenv("BAZAAR_PASSPHRASE"); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal for passphrase prompt: set BAZAAR_PASSPHRASE")
	}

	p, err := promptOnce(fd, prompt)
	if err != nil {
		return "", err
	}
	if p == "" {
		return "", errors.New("passphrase must not be empty")
	}

	if confirm {
		again, err := promptOnce(fd, "Repeat passphrase: ")
		if err != nil {
			return "", err
		}
		if again != p {
			return "", errors.New("passphrases do not match")
		}
	}
	return p, nil
}

func promptOnce(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}
