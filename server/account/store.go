package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("player record not found")

// Store persists player records by name.
type Store interface {
	Load(ctx context.Context, name string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// safeFileName creates a safe filename from potentially unsafe characters
func safeFileName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	if s == "" {
		s = "player"
	}
	return s
}

// FileStore keeps one JSON file per player under dir.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, safeFileName(name)+".json")
}

func (s *FileStore) Load(_ context.Context, name string) (*Record, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read player file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", name, err)
	}
	return &rec, nil
}

// Save writes the record atomically via a temp file and rename.
func (s *FileStore) Save(_ context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create players directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	path := s.path(rec.Name)
	f, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp player file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write temp player file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temp player file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename player file: %w", err)
	}
	return nil
}

const redisKeyPrefix = "costumeshop:player:"

// RedisStore keeps player records as JSON strings in redis.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis parses url, pings the server and returns a store on success.
func DialRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (*Record, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", name, err)
	}
	return &rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+rec.Name, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", rec.Name, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
