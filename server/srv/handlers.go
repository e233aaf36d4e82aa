package srv

import (
	"context"
	"encoding/json"
	"errors"

	"costumeshop/server/catalog"
	"costumeshop/server/currency"
	"costumeshop/server/inventory"
	"costumeshop/server/shop"
	"costumeshop/shared/protocol"
)

// errorCode maps a shop error to its wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, currency.ErrInsufficientFunds):
		return protocol.CodeInsufficientFunds
	case errors.Is(err, currency.ErrInvalidAmount):
		return protocol.CodeInvalidAmount
	case errors.Is(err, inventory.ErrAlreadyOwned):
		return protocol.CodeAlreadyOwned
	case errors.Is(err, inventory.ErrNotOwned):
		return protocol.CodeNotOwned
	case errors.Is(err, catalog.ErrUnknownCostumeID):
		return protocol.CodeUnknownCostume
	case errors.Is(err, catalog.ErrDuplicateDefinition):
		return protocol.CodeDuplicateDefinition
	case errors.Is(err, shop.ErrTransactionFailed):
		return protocol.CodeTransactionFailed
	case errors.Is(err, shop.ErrLocked):
		return protocol.CodeLocked
	case errors.Is(err, shop.ErrNothingSelected):
		return protocol.CodeNothingSelected
	default:
		return protocol.CodeInternal
	}
}

func sendError(c *client, err error) {
	sendJSON(c, "Error", protocol.Error{Code: errorCode(err), Message: err.Error()})
}

func (h *Hub) dispatch(c *client, env protocol.MsgEnvelope) {
	switch env.Type {

	// ---------- Catalog / Profile ----------
	case "ListCatalog":
		h.sendCatalog(c)

	case "GetProfile":
		h.sendProfile(c)

	// ---------- Shop view ----------
	case "OpenShop":
		c.selection = shop.NewSelection(h.engine.Catalog(), c.player)
		h.sendCatalog(c)
		h.sendSelection(c)

	case "CloseShop":
		c.selection = nil

	case "SelectCostume":
		var m protocol.SelectCostume
		if !decode(c, env, &m) {
			return
		}
		if c.selection == nil {
			sendJSON(c, "Error", protocol.Error{Code: protocol.CodeShopClosed, Message: "shop is not open"})
			return
		}
		if err := c.selection.Select(m.ID); err != nil {
			sendError(c, err)
			return
		}
		h.metrics.ObserveSelection()
		h.sendSelection(c)

	case "GetSelection":
		if c.selection == nil {
			sendJSON(c, "Error", protocol.Error{Code: protocol.CodeShopClosed, Message: "shop is not open"})
			return
		}
		h.sendSelection(c)

	case "BuyCostume":
		var m protocol.BuyCostume
		if !decode(c, env, &m) {
			return
		}
		if c.seenNonce(m.Nonce) {
			sendJSON(c, "Error", protocol.Error{Code: protocol.CodeDuplicateRequest, Message: "duplicate buy request"})
			return
		}
		costume, err := h.engine.PurchaseByID(c.player, m.ID)
		if err != nil {
			sendError(c, err)
			return
		}
		c.rememberNonce(m.Nonce)
		h.persist(c)
		sendJSON(c, "GoldSynced", protocol.GoldSynced{Gold: c.player.Balance()})
		sendJSON(c, "BuyCostumeResult", protocol.BuyCostumeResult{
			ID:   costume.ID,
			Gold: c.player.Balance(),
			Worn: c.player.Worn(),
		})
		if c.selection != nil {
			h.sendSelection(c)
		}

	case "WearCostume":
		var m protocol.WearCostume
		if !decode(c, env, &m) {
			return
		}
		if err := h.engine.Wear(c.player, m.ID); err != nil {
			sendError(c, err)
			return
		}
		h.persist(c)
		h.sendProfile(c)

	// ---------- Game progress ----------
	case "GrantGold":
		var m protocol.GrantGold
		if !decode(c, env, &m) {
			return
		}
		if err := h.engine.Award(c.player, m.Amount, m.Reason); err != nil {
			sendError(c, err)
			return
		}
		h.persist(c)
		sendJSON(c, "GoldSynced", protocol.GoldSynced{Gold: c.player.Balance()})
		if c.selection != nil {
			h.sendSelection(c)
		}

	case "CompleteLevel":
		n := h.engine.CompleteLevel(c.player)
		h.persist(c)
		sendJSON(c, "LevelCompleted", protocol.LevelCompleted{Levels: n})

	case "Logout":
		c.selection = nil
		sendJSON(c, "LoggedOut", struct{}{})

	default:
		sendJSON(c, "Error", protocol.Error{Code: protocol.CodeBadRequest, Message: "unknown message type " + env.Type})
	}
}

func decode(c *client, env protocol.MsgEnvelope, v interface{}) bool {
	if len(env.Data) == 0 {
		env.Data = []byte("{}")
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		sendJSON(c, "Error", protocol.Error{Code: protocol.CodeBadRequest, Message: "invalid " + env.Type + " payload"})
		return false
	}
	return true
}

// persist saves after a successful mutation. A failed save is logged and
// the in-memory state stays authoritative for the session.
func (h *Hub) persist(c *client) {
	if err := h.accounts.Save(context.Background(), c.player); err != nil {
		h.logger.Error("HUB: save failed", "user", c.name, "error", err)
	}
}

func (h *Hub) sendCatalog(c *client) {
	defs := h.engine.Catalog().List()
	out := protocol.Catalog{Items: make([]protocol.CatalogEntry, 0, len(defs))}
	for _, d := range defs {
		out.Items = append(out.Items, protocol.CatalogEntry{Costume: d, Status: shop.StatusOf(c.player, d)})
	}
	sendJSON(c, "Catalog", out)
}

func (h *Hub) sendSelection(c *client) {
	costume, err := c.selection.Costume()
	if err != nil {
		sendError(c, err)
		return
	}
	sendJSON(c, "SelectionSynced", protocol.SelectionSynced{
		ID:          costume.ID,
		Status:      shop.StatusOf(c.player, costume),
		CanPurchase: h.engine.CanPurchase(c.player, costume),
	})
}

func (h *Hub) sendProfile(c *client) {
	rec := c.player.Snapshot()
	sendJSON(c, "Profile", protocol.Profile{
		Name:            rec.Name,
		Gold:            rec.Balance,
		Owned:           rec.Owned,
		Worn:            rec.Worn,
		LevelsCompleted: rec.LevelsCompleted,
	})
}
