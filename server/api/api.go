// Package api exposes the HTTP surface: auth, catalog, profile, metrics and the websocket upgrade.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"costumeshop/server/account"
	"costumeshop/server/auth"
	"costumeshop/server/catalog"
	"costumeshop/server/shop"
	"costumeshop/server/srv"
	"costumeshop/shared/game/types"
	"costumeshop/shared/protocol"
)

type Deps struct {
	Auth     *auth.Auth
	Catalog  *catalog.Registry
	Accounts *account.Service
	Hub      *srv.Hub
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

type RegisterReq struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}
type RegisterResp struct {
	OK bool `json:"ok"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type LoginResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type CatalogResp struct {
	Costumes []types.CostumeDefinition `json:"costumes"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type handler struct {
	Deps
}

// NewRouter wires every route onto a chi router.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	h := &handler{Deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Get("/catalog", h.catalog)
		r.With(d.Auth.RequireAuth).Get("/profile", h.profile)
	})
	r.With(d.Auth.RequireAuth).Get("/ws", h.ws)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Password != req.PasswordConfirm {
		http.Error(w, "password mismatch", http.StatusBadRequest)
		return
	}
	err := h.Auth.Register(req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, RegisterResp{OK: true})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	tok, name, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, LoginResp{Token: tok, Username: name})
}

func (h *handler) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResp{Costumes: h.Catalog.List()})
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	p, err := h.Accounts.Open(r.Context(), user)
	if err != nil {
		h.Logger.Error("API: open player failed", "user", user, "error", err)
		http.Error(w, "account unavailable", http.StatusInternalServerError)
		return
	}
	defer h.Accounts.Release(user)

	rec := p.Snapshot()
	items := make([]protocol.CatalogEntry, 0, h.Catalog.Len())
	for _, c := range h.Catalog.List() {
		items = append(items, protocol.CatalogEntry{Costume: c, Status: shop.StatusOf(p, c)})
	}
	writeJSON(w, http.StatusOK, struct {
		protocol.Profile
		Catalog []protocol.CatalogEntry `json:"catalog"`
	}{
		Profile: protocol.Profile{
			Name:            rec.Name,
			Gold:            rec.Balance,
			Owned:           rec.Owned,
			Worn:            rec.Worn,
			LevelsCompleted: rec.LevelsCompleted,
		},
		Catalog: items,
	})
}

func (h *handler) ws(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("API: upgrade failed", "error", err)
		return
	}
	h.Hub.HandleWSAuth(conn, user)
}
