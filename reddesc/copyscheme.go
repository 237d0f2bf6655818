// Package reddesc implements the redundancy descriptor core: CopyScheme,
// RedDesc, RedDescBuilder and RedDescTable.
package reddesc

import (
	"fmt"
	"strings"

	"github.com/sharedcode/scrred"
)

// CopyKind enumerates the three redundancy strategies a descriptor can
// carry.
type CopyKind int

const (
	Single CopyKind = iota
	Partner
	Xor
)

func (k CopyKind) String() string {
	switch k {
	case Single:
		return "SINGLE"
	case Partner:
		return "PARTNER"
	case Xor:
		return "XOR"
	default:
		return "UNKNOWN"
	}
}

// CopyScheme is a tagged variant over the three redundancy strategies.
// Xor carries a SetSize parameter; Single and Partner carry none.
type CopyScheme struct {
	Kind    CopyKind
	SetSize int
}

// NewSingle returns the Single copy scheme.
func NewSingle() CopyScheme { return CopyScheme{Kind: Single} }

// NewPartner returns the Partner copy scheme.
func NewPartner() CopyScheme { return CopyScheme{Kind: Partner} }

// NewXor returns the Xor copy scheme with the given parity group size.
func NewXor(setSize int) CopyScheme { return CopyScheme{Kind: Xor, SetSize: setSize} }

// ParseCopyScheme parses s case-insensitively into one of SINGLE,
// PARTNER or XOR. setSize is used only for the Xor variant (the
// caller's global-default or configured SET_SIZE). Any other value
// fails with UnknownCopyType.
func ParseCopyScheme(s string, setSize int) (CopyScheme, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SINGLE":
		return NewSingle(), nil
	case "PARTNER":
		return NewPartner(), nil
	case "XOR":
		return NewXor(setSize), nil
	default:
		return CopyScheme{}, &scrred.Error{
			Code: scrred.UnknownCopyType,
			Err:  fmt.Errorf("unknown copy type %q", s),
		}
	}
}

// String serializes the scheme back to its canonical uppercase token
// (spec.md §4.1). SetSize is not part of the TYPE token; it is
// serialized separately where the caller needs it.
func (c CopyScheme) String() string {
	return c.Kind.String()
}
