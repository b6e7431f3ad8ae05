package enums

import "fmt"

// PrintColorMode selects how a print-job line item is produced.
type PrintColorMode string

const (
	PrintColorModeBlackAndWhite PrintColorMode = "bw"
	PrintColorModeColor         PrintColorMode = "color"
)

var validPrintColorModes = []PrintColorMode{
	PrintColorModeBlackAndWhite,
	PrintColorModeColor,
}

// String implements fmt.Stringer.
func (p PrintColorMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrintColorMode.
func (p PrintColorMode) IsValid() bool {
	for _, candidate := range validPrintColorModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrintColorMode converts raw input into a PrintColorMode.
func ParsePrintColorMode(value string) (PrintColorMode, error) {
	for _, candidate := range validPrintColorModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid print color mode %q", value)
}
