// Package snapshot persists serialized quadtrees.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robert-butts/quadtree"
)

// ErrNotFound is returned by Load when no snapshot has been saved.
var ErrNotFound = errors.New("snapshot: not found")

type Store interface {
	Save(ctx context.Context, qt *quadtree.Quadtree) error
	Load(ctx context.Context) (*quadtree.Quadtree, error)
}

// File stores the tree as a JSON document at Path.
type File struct {
	Path string
}

// Save writes the tree to a temporary file next to Path and renames it into
// place, so a reader never sees a partial snapshot.
func (f File) Save(_ context.Context, qt *quadtree.Quadtree) error {
	data, err := quadtree.Marshal(qt)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

func (f File) Load(_ context.Context) (*quadtree.Quadtree, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	qt, err := quadtree.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", f.Path, err)
	}
	return qt, nil
}

func (f File) String() string { return "file:" + f.Path }

// Redis stores the tree as a string value under Key. A zero TTL keeps the
// value until it is overwritten.
type Redis struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

// NewRedis opens a client for addr. It does not contact the server.
func NewRedis(addr, password string, db int, key string) *Redis {
	return &Redis{
		Client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		Key:    key,
	}
}

func (r *Redis) Save(ctx context.Context, qt *quadtree.Quadtree) error {
	data, err := quadtree.Marshal(qt)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := r.Client.Set(ctx, r.Key, data, r.TTL).Err(); err != nil {
		return fmt.Errorf("snapshot: redis set %s: %w", r.Key, err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context) (*quadtree.Quadtree, error) {
	data, err := r.Client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: redis key %s", ErrNotFound, r.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: redis get %s: %w", r.Key, err)
	}
	qt, err := quadtree.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot: redis key %s: %w", r.Key, err)
	}
	return qt, nil
}

func (r *Redis) Close() error { return r.Client.Close() }

func (r *Redis) String() string { return "redis:" + r.Client.Options().Addr + "/" + r.Key }
