package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/robert-butts/quadtree"
)

func sampleTree(t *testing.T) *quadtree.Quadtree {
	t.Helper()
	qt, err := quadtree.New(quadtree.Rectangle{X: 200, Y: 200, W: 200, H: 200}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []quadtree.Point{{X: 10, Y: 10}, {X: 390, Y: 10}, {X: 10, Y: 390}, {X: 390, Y: 390}, {X: 200, Y: 200}, {X: 50, Y: 60}} {
		if _, err := qt.Insert(p); err != nil {
			t.Fatal(err)
		}
	}
	return qt
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := File{Path: filepath.Join(t.TempDir(), "data.json")}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load before Save: %v", err)
	}
	qt := sampleTree(t)
	if err := store.Save(ctx, qt); err != nil {
		t.Fatal(err)
	}
	back, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !quadtree.Equal(qt, back) {
		t.Error("reloaded tree differs")
	}

	// overwrite leaves no temporaries behind
	if err := store.Save(ctx, back); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(store.Path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries", len(entries))
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"boundary":{"x":0,`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := File{Path: path}.Load(context.Background())
	if !errors.Is(err, quadtree.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestFileSaveMissingDir(t *testing.T) {
	store := File{Path: filepath.Join(t.TempDir(), "missing", "data.json")}
	if err := store.Save(context.Background(), sampleTree(t)); err == nil {
		t.Error("Save into a missing directory succeeded")
	}
}

func TestRedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr(), "", 0, "quadtree:snapshot")
	defer r.Close()
	r.TTL = time.Minute
	ctx := context.Background()

	if _, err := r.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load before Save: %v", err)
	}
	qt := sampleTree(t)
	if err := r.Save(ctx, qt); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL("quadtree:snapshot"); got != time.Minute {
		t.Errorf("TTL = %v, want %v", got, time.Minute)
	}
	back, err := r.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !quadtree.Equal(qt, back) {
		t.Error("reloaded tree differs")
	}

	mr.FastForward(2 * time.Minute)
	if _, err := r.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after expiry: %v", err)
	}
}

func TestRedisNoTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr(), "", 0, "qt")
	defer r.Close()
	if err := r.Save(context.Background(), sampleTree(t)); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL("qt"); got != 0 {
		t.Errorf("TTL = %v, want none", got)
	}
}

func TestRedisCorrupt(t *testing.T) {
	mr := miniredis.RunT(t)
	if err := mr.Set("qt", `{"boundary":`); err != nil {
		t.Fatal(err)
	}
	r := NewRedis(mr.Addr(), "", 0, "qt")
	defer r.Close()
	if _, err := r.Load(context.Background()); !errors.Is(err, quadtree.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestRedisUnreachable(t *testing.T) {
	r := &Redis{
		Client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond}),
		Key:    "quadtree:test",
	}
	defer r.Close()
	ctx := context.Background()
	if err := r.Save(ctx, sampleTree(t)); err == nil {
		t.Error("Save succeeded without a server")
	}
	if _, err := r.Load(ctx); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v", err)
	}
	if got := r.String(); got != "redis:127.0.0.1:1/quadtree:test" {
		t.Errorf("String = %q", got)
	}
}

func TestStores(t *testing.T) {
	var _ Store = File{}
	var _ Store = (*Redis)(nil)
}
