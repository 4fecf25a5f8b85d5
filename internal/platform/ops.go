package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/loamenum/pkg/adapters/fs"
	"github.com/aretw0/loamenum/pkg/adapters/memory"
	"github.com/aretw0/loamenum/pkg/adapters/sqlite"
	"github.com/aretw0/loamenum/pkg/core"
)

// Open builds and initializes the repository selected by the options.
// The uri is adapter-specific: a directory for "fs", a database file (or
// ":memory:") for "sqlite", ignored for "memory".
func Open(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	o := resolve(opts)
	if o.repository != nil {
		return o.repository, nil
	}

	var (
		repo core.Repository
		err  error
	)
	switch o.adapter {
	case AdapterFS:
		repo, err = openFS(uri, o)
	case AdapterSQLite:
		repo, err = sqlite.Open(uri, sqlite.Config{Table: o.table, Logger: o.logger})
	case AdapterMemory:
		repo = memory.NewRepository()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize %s store: %w", o.adapter, err)
	}
	o.logger.Debug("store opened", "adapter", o.adapter, "uri", uri)
	return repo, nil
}

func openFS(path string, o *options) (*fs.Repository, error) {
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolveVaultPath(path, useTemp)

	if useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}

	repo := fs.NewRepository(fs.Config{
		Path:         resolved,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		SystemDir:    o.systemDir,
		DefaultExt:   o.defaultExt,
		ErrorHandler: o.errorHandler,
	})
	for ext, s := range o.serializers {
		if s == nil {
			return nil, fmt.Errorf("serializer for %s is nil", ext)
		}
		repo.RegisterSerializer(ext, s)
	}
	return repo, nil
}
