package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidWindowList = errors.New("invalid window lengths")

// ParseWindowLengths parses a comma separated list of hour counts such as
// "2h,4h,8h" or "2,4,8". Numbers below one are returned as is, the analysis
// reports them per window.
func ParseWindowLengths(str string) ([]int, error) {
	var lengths []int
	for _, part := range strings.Split(str, ",") {
		part = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(part)), "h")
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWindowList, str)
		}
		lengths = append(lengths, n)
	}
	if len(lengths) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWindowList, str)
	}
	return lengths, nil
}
