package seat

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanName turns raw passenger input into the label stored on a seat.
//
// Surrounding whitespace is removed, inner whitespace runs collapse to a
// single space, the text is NFC-normalized and then cut to MaxNameLength
// runes. A name that is empty after cleaning yields EmptyNameError. A name
// equal to the Unoccupied sentinel yields ReservedNameError since storing it
// would make the seat read back as free.
func CleanName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", &EmptyNameError{}
	}
	name = norm.NFC.String(name)

	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}

	if name == Unoccupied {
		return "", &ReservedNameError{Name: name}
	}
	return name, nil
}
