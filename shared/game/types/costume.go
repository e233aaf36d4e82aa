package types

import (
	"strings"
	"unicode"
)

// CostumeDefinition is one purchasable cosmetic. TextureRef belongs to the
// renderer and is never inspected by the server.
type CostumeDefinition struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"name"`
	Price       int64  `json:"price" yaml:"price"`
	TextureRef  string `json:"textureRef,omitempty" yaml:"texture"`
	UnlockLevel int    `json:"unlockLevel,omitempty" yaml:"unlock_level"` // levels completed before it can be bought
}

// CostumeID derives a stable id from a display name: "Red Shirt" -> "red-shirt".
func CostumeID(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// NewCostume builds a definition whose id is derived from its name.
func NewCostume(name string, price int64, texture string) CostumeDefinition {
	return CostumeDefinition{
		ID:          CostumeID(name),
		DisplayName: name,
		Price:       price,
		TextureRef:  texture,
	}
}

type CostumeStatus int

const (
	StatusOwned CostumeStatus = iota
	StatusAffordable
	StatusUnaffordable
	StatusLocked
)

func (s CostumeStatus) String() string {
	switch s {
	case StatusOwned:
		return "owned"
	case StatusAffordable:
		return "affordable"
	case StatusUnaffordable:
		return "unaffordable"
	case StatusLocked:
		return "locked"
	default:
		return "unknown"
	}
}

func (s CostumeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
