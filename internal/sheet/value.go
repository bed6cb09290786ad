package sheet

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrNotInteger = errors.New("not an integer")

var integerPattern = regexp.MustCompile(`^[+-]?\d+$`)

// ParseInt accepts only a non-empty, well-formed integer, optionally padded
// with whitespace.
func ParseInt(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if !integerPattern.MatchString(trimmed) {
		return 0, fmt.Errorf("%q: %w", value, ErrNotInteger)
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", value, ErrNotInteger)
	}
	return n, nil
}

// ParseStat reads a weapon stat where an empty cell means zero.
func ParseStat(value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return ParseInt(value)
}

func FormatInt(n int) string {
	return strconv.Itoa(n)
}
