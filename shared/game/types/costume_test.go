package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostumeID(t *testing.T) {
	cases := map[string]string{
		"Red Shirt":         "red-shirt",
		"  Gray   Shirt  ":  "gray-shirt",
		"Knight's Armor #2": "knight-s-armor-2",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CostumeID(in), "CostumeID(%q)", in)
	}
}

func TestBuiltInCostumesHaveDerivedIDs(t *testing.T) {
	for _, c := range ListCostumes() {
		assert.Equal(t, CostumeID(c.DisplayName), c.ID)
	}
	assert.Equal(t, DefaultCostumeID, ListCostumes()[0].ID)
}

func TestStatusText(t *testing.T) {
	b, err := StatusUnaffordable.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "unaffordable", string(b))
	assert.Equal(t, "unknown", CostumeStatus(42).String())
}
