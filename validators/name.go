package validators

import (
	"errors"
	"regexp"
)

var (
	ErrNameEmpty   = errors.New("no model name provided")
	ErrNameTooLong = errors.New("model name is too long")
	ErrNameInvalid = errors.New("model name may only contain letters, digits, hyphens and underscores and must start with a letter or digit")
)

const maxNameLength = 255

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// NameValidator checks a candidate model name before anything touches
// the network. Called on every keystroke by the frontend so it has to
// stay cheap
func NameValidator(name string) error {
	if name == "" {
		return ErrNameEmpty
	}

	if len(name) > maxNameLength {
		return ErrNameTooLong
	}

	if !namePattern.MatchString(name) {
		return ErrNameInvalid
	}

	return nil
}
