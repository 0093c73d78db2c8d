package quiz

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an operation is not valid in the current state.
// The state is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

func invalid(op string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidTransition, fmt.Sprintf(format, args...))
}
