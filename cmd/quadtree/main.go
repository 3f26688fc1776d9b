// Command quadtree fills a quadtree with uniformly random points, saves the
// tree, reloads it to check the round trip and renders it.
//
// Usage:
//
//	quadtree <count>
//
// Settings come from the environment or a .env file; see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/robert-butts/quadtree"
	"github.com/robert-butts/quadtree/internal/config"
	"github.com/robert-butts/quadtree/internal/logger"
	"github.com/robert-butts/quadtree/internal/pointsource"
	"github.com/robert-butts/quadtree/internal/render"
	"github.com/robert-butts/quadtree/internal/snapshot"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage: quadtree <count>")

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func parseCount(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: count must be a non-negative integer, got %q", errUsage, args[0])
	}
	return n, nil
}

func run(args []string, stderr io.Writer) int {
	count, err := parseCount(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	closer := logger.Init(cfg.Log)
	defer closer.Close()

	lg := logger.Get()
	if err := build(context.Background(), lg, cfg, count); err != nil {
		lg.Error().Err(err).Msg("quadtree failed")
		return exitError
	}
	return exitOK
}

func build(ctx context.Context, lg zerolog.Logger, cfg config.Config, count int) error {
	half := cfg.Dim / 2.0
	boundary, err := quadtree.NewRectangle(half, half, half, half)
	if err != nil {
		return err
	}
	qt, err := quadtree.New(boundary, cfg.Capacity)
	if err != nil {
		return err
	}
	src, err := pointsource.New(cfg.Dim, cfg.Seed)
	if err != nil {
		return err
	}

	inserted := 0
	start := time.Now()
	for _, p := range src.Take(count) {
		ok, err := qt.Insert(p)
		if err != nil {
			return err
		}
		if ok {
			inserted++
		}
	}
	lg.Info().
		Int("requested", count).
		Int("inserted", inserted).
		Int("nodes", qt.NodeCount()).
		Int("depth", depth(qt)).
		Dur("elapsed", time.Since(start)).
		Msg("points inserted")

	stores := []snapshot.Store{snapshot.File{Path: cfg.SnapshotPath}}
	if cfg.Redis.Addr != "" {
		r := snapshot.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key)
		defer r.Close()
		stores = append(stores, r)
	}
	var saved *quadtree.Quadtree
	for _, store := range stores {
		back, err := persist(ctx, lg, store, qt)
		if err != nil {
			return err
		}
		if saved == nil {
			saved = back
		}
	}

	if cfg.RenderPath == "" {
		return nil
	}
	if err := render.WriteFile(cfg.RenderPath, saved, cfg.RenderScale); err != nil {
		return err
	}
	lg.Info().Str("path", cfg.RenderPath).Msg("rendered")
	return nil
}

// persist saves qt to store and reads it back, failing if the copy differs.
func persist(ctx context.Context, lg zerolog.Logger, store snapshot.Store, qt *quadtree.Quadtree) (*quadtree.Quadtree, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := store.Save(ctx, qt); err != nil {
		return nil, err
	}
	back, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !quadtree.Equal(qt, back) {
		return nil, fmt.Errorf("snapshot %v does not match the tree", store)
	}
	lg.Debug().Str("store", fmt.Sprint(store)).Int("points", back.Len()).Msg("snapshot saved")
	return back, nil
}

func depth(qt *quadtree.Quadtree) int {
	deepest := 0
	qt.Walk(func(d int, _ quadtree.Rectangle, _ []quadtree.Point) bool {
		deepest = max(deepest, d)
		return true
	})
	return deepest
}
