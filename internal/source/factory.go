package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JonMunkholm/foodsearch/internal/config"
	"github.com/JonMunkholm/foodsearch/internal/core"
)

// Open builds the source selected by cfg.Data.Source. The returned close
// function releases connections and is safe to call once.
func Open(ctx context.Context, cfg *config.Config) (core.Source, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Data.Source) {
	case "", config.SourceDir:
		return core.NewBlobSource(NewDir(cfg.Data.Dir)), noop, nil

	case config.SourceS3:
		store, err := NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		})
		if err != nil {
			return nil, noop, fmt.Errorf("open s3 source: %w", err)
		}
		return core.NewBlobSource(store), noop, nil

	case config.SourcePostgres:
		pg, err := OpenPostgres(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, noop, err
		}
		return pg, pg.Close, nil

	case config.SourceSQLite:
		db, err := OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		return db, func() { _ = db.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// SpecOptions maps data settings to table specs options.
func SpecOptions(data config.DataConfig) core.SpecOptions {
	return core.SpecOptions{
		FoodFile:         data.FoodFile,
		MenuFile:         data.MenuFile,
		NutritionFile:    data.NutritionFile,
		FoodMenuFile:     data.FoodMenuFile,
		MenuAssociations: data.MenuAssociations,
	}
}

// NewSession opens the configured source and wraps it in a session.
// observer may be nil.
func NewSession(ctx context.Context, cfg *config.Config, observer core.Observer) (*core.Session, func(), error) {
	src, closeFn, err := Open(ctx, cfg)
	if err != nil {
		return nil, closeFn, err
	}
	session := core.NewSession(src, core.SessionOptions{
		Specs:         core.Specs(SpecOptions(cfg.Data)),
		StrictHeaders: cfg.Data.StrictHeaders,
		Observer:      observer,
	})
	return session, closeFn, nil
}
