package protocol

import (
	"encoding/json"

	"costumeshop/shared/game/types"
)

// Envelope
type MsgEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ================= C -> S =================

type ListCatalog struct{}

// OpenShop starts a shop view; CloseShop discards its selection.
type OpenShop struct{}
type CloseShop struct{}

type SelectCostume struct {
	ID string `json:"id"`
}

type GetSelection struct{}

type BuyCostume struct {
	ID    string `json:"id"`
	Nonce string `json:"nonce"` // For deduplication
}

type WearCostume struct {
	ID string `json:"id"`
}

// GrantGold comes from the game-progress side, never from shop UI.
type GrantGold struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type CompleteLevel struct{}

type GetProfile struct{}

type Logout struct{}

// ================= S -> C =================

type CatalogEntry struct {
	Costume types.CostumeDefinition `json:"costume"`
	Status  types.CostumeStatus     `json:"status"`
}

type Catalog struct {
	Items []CatalogEntry `json:"items"`
}

type SelectionSynced struct {
	ID          string              `json:"id"`
	Status      types.CostumeStatus `json:"status"`
	CanPurchase bool                `json:"canPurchase"`
}

type Profile struct {
	Name            string   `json:"name"`
	Gold            int64    `json:"gold"`
	Owned           []string `json:"owned"`
	Worn            string   `json:"worn"`
	LevelsCompleted int      `json:"levelsCompleted"`
}

// Currency events
type GoldSynced struct {
	Gold int64 `json:"gold"`
}

type BuyCostumeResult struct {
	ID   string `json:"id"`
	Gold int64  `json:"gold"`
	Worn string `json:"worn"`
}

type LevelCompleted struct {
	Levels int `json:"levels"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
