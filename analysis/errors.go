package analysis

import (
	"errors"
	"fmt"
)

var ErrEmptySeries = errors.New("price series is empty")

type InvalidWindowSizeError struct {
	Length int
}

func (e *InvalidWindowSizeError) Error() string {
	return fmt.Sprintf("invalid window size %d, must be at least 1 hour", e.Length)
}

type WindowTooLargeError struct {
	Length    int
	Available int
}

func (e *WindowTooLargeError) Error() string {
	return fmt.Sprintf("window of %d hours does not fit in %d available hours", e.Length, e.Available)
}
