package engine

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
)

// ErrBadAmount reports an amount string that cannot be parsed.
var ErrBadAmount = errors.New("invalid amount")

// ParseAmount converts a positive decimal string into money in the given
// currency. Both dot and comma decimal separators are accepted; a third
// decimal digit rounds half-up.
func ParseAmount(s, currency string) (*money.Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return nil, ErrBadAmount
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return nil, ErrBadAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return nil, ErrBadAmount
		}
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return nil, ErrBadAmount
	}

	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			cents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				cents++
			}
		}
	}

	return money.New(units*100+cents, currency), nil
}
