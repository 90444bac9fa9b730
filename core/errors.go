package core

import "errors"

var (
	ErrNotFound = errors.New("boostday: not found")
	ErrTemplate = errors.New("boostday: template error")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsTemplateError(err error) bool {
	return errors.Is(err, ErrTemplate)
}
