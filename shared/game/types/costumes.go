package types

// DefaultCostumeID is owned and worn by every new player.
const DefaultCostumeID = "gray-shirt"

var costumeRegistry = []CostumeDefinition{
	{ID: DefaultCostumeID, DisplayName: "Gray Shirt", Price: 0, TextureRef: "grayshirt"},
	{ID: "red-shirt", DisplayName: "Red Shirt", Price: 25, TextureRef: "redshirt"},
	{ID: "blue-shirt", DisplayName: "Blue Shirt", Price: 50, TextureRef: "blueshirt"},
	// green unlocks after the second cleared level
	{ID: "green-shirt", DisplayName: "Green Shirt", Price: 75, TextureRef: "greenshirt", UnlockLevel: 2},
}

// ListCostumes returns the built-in costume set in display order.
func ListCostumes() []CostumeDefinition {
	out := make([]CostumeDefinition, len(costumeRegistry))
	copy(out, costumeRegistry)
	return out
}
