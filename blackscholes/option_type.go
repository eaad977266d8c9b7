package blackscholes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOptionType = errors.New("blackscholes: invalid option type")
	ErrInvalidInput      = errors.New("blackscholes: invalid input")
)

// OptionType 期权方向. The zero value is deliberately not a valid direction.
type OptionType uint8

const (
	Call OptionType = iota + 1
	Put
)

// ParseOptionType accepts "call"/"c" and "put"/"p", case-insensitive.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "call":
		return Call, nil
	case "p", "put":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionType, s)
}

func (o OptionType) Valid() bool {
	return o == Call || o == Put
}

func (o OptionType) String() string {
	switch o {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("OptionType(%d)", uint8(o))
}

func (o OptionType) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOptionType, uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *OptionType) UnmarshalText(b []byte) error {
	v, err := ParseOptionType(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o OptionType) check() error {
	if !o.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOptionType, uint8(o))
	}
	return nil
}
