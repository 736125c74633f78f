package utils

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidAddress is returned for anything that does not look like a
// dHealth account address.
var ErrInvalidAddress = errors.New("invalid dHealth address")

// dHealth addresses are 39 characters of base32 starting with the network
// prefix letter. Users paste them in pretty form with hyphens, so those are
// stripped before matching.
var addressPattern = regexp.MustCompile(`^[A-Z][A-Z2-7]{38}$`)

// ParseAddress validates a candidate address and returns its plain
// (un-hyphenated, upper-case) form. Every handler that receives an
// address-bearing parameter calls this before touching the store or the
// provider.
func ParseAddress(raw string) (string, error) {
	plain := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", ""))
	if !addressPattern.MatchString(plain) {
		return "", ErrInvalidAddress
	}
	return plain, nil
}
