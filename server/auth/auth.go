// Package auth registers players and issues the tokens that open shop sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	issuer   = "costumeshop"
	tokenTTL = 24 * time.Hour
	minPass  = 6
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type userStore struct {
	mu    sync.RWMutex
	path  string
	users map[string]*User
}

func newUserStore(path string) (*userStore, error) {
	us := &userStore{path: path, users: map[string]*User{}}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create users dir: %w", err)
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read users: %w", err)
	default:
		if err := json.Unmarshal(b, &us.users); err != nil {
			return nil, fmt.Errorf("parse users: %w", err)
		}
	}
	return us, nil
}

// save must be called with mu held.
func (s *userStore) save() error {
	b, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *userStore) get(username string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(username)]
	return u, ok
}

// putNew stores u unless the name is taken.
func (s *userStore) putNew(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Username)
	if _, ok := s.users[key]; ok {
		return ErrUserExists
	}
	s.users[key] = u
	if err := s.save(); err != nil {
		delete(s.users, key)
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

type Auth struct {
	users  *userStore
	jwtKey []byte
	logger *slog.Logger
	now    func() time.Time
}

// New opens the user file under dataDir. An empty signingKey makes a random
// key that is persisted next to the users so tokens survive restarts.
func New(dataDir, signingKey string, logger *slog.Logger) (*Auth, error) {
	users, err := newUserStore(filepath.Join(dataDir, "users.json"))
	if err != nil {
		return nil, err
	}
	key := []byte(signingKey)
	if len(key) == 0 {
		key, err = loadOrCreateKey(filepath.Join(dataDir, "jwt.key"))
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{users: users, jwtKey: key, logger: logger, now: time.Now}, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil && len(key) >= 32 {
		return key, nil
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate jwt key: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write jwt key: %w", err)
	}
	return key, nil
}

// Register creates a user with a bcrypt password hash.
func (a *Auth) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPass {
		return fmt.Errorf("username required and password must be at least %d characters", minPass)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u := &User{Username: username, PasswordHash: string(hash), CreatedAt: a.now()}
	if err := a.users.putNew(u); err != nil {
		return err
	}
	a.logger.Info("AUTH: registered", "user", username)
	return nil
}

// Login checks the password and returns a signed token plus the canonical username.
func (a *Auth) Login(username, password string) (string, string, error) {
	u, ok := a.users.get(strings.TrimSpace(username))
	if !ok || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   u.Username,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtKey)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return signed, u.Username, nil
}

// ParseToken returns the username a valid token was issued to.
func (a *Auth) ParseToken(tok string) (string, error) {
	if tok == "" {
		return "", fmt.Errorf("%w: missing token", ErrInvalidToken)
	}
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.jwtKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !t.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

type ctxKey struct{}

// WithUser stores the authenticated username on ctx.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxKey{}, username)
}

// UserFrom returns the username put on ctx by RequireAuth.
func UserFrom(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(ctxKey{}).(string)
	return u, ok && u != ""
}

// RequireAuth accepts a bearer header or a token query parameter (browsers
// cannot set headers on websocket upgrades).
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tok string
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tok = strings.TrimPrefix(h, "Bearer ")
		} else {
			tok = r.URL.Query().Get("token")
		}
		user, err := a.ParseToken(tok)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
