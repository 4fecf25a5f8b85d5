package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/loamenum"
	"github.com/aretw0/loamenum/pkg/core"
	"github.com/aretw0/loamenum/pkg/enum"
	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/schema"
	"github.com/aretw0/loamenum/pkg/trace"
)

// app bundles what every command needs: the built models and the store.
type app struct {
	models  *schema.Registry
	repo    core.Repository
	metrics *prometheus.Registry
	logger  *slog.Logger
}

func openApp(ctx context.Context, c *Config) (*app, error) {
	logger := slog.Default()

	metrics := prometheus.NewRegistry()
	counter, err := trace.NewMetricsTracer(metrics, "")
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	tracers := []trace.Tracer{counter}
	if c.Trace {
		tracers = append(tracers, trace.New(logger))
	}
	compiler := enum.NewCompiler(enum.WithTracer(trace.Multi(tracers...)), enum.WithLogger(logger))

	f, err := schema.LoadGlob(c.Schema)
	if err != nil {
		return nil, err
	}
	models, err := f.Build(compiler)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	repo, err := loamenum.Open(ctx, c.Vault,
		loamenum.WithAdapter(c.Adapter),
		loamenum.WithTable(c.Table),
		loamenum.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", c.Adapter, err)
	}

	return &app{models: models, repo: repo, metrics: metrics, logger: logger}, nil
}

func (a *app) Close() error {
	if c, ok := a.repo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *app) entry(name string) (*schema.Entry, error) {
	e, ok := a.models.Model(name)
	if !ok {
		return nil, fmt.Errorf("unknown model %q (known: %v)", name, a.models.Names())
	}
	return e, nil
}

func (a *app) enum(modelName, attribute string) (*schema.Entry, *enum.Enum, error) {
	e, err := a.entry(modelName)
	if err != nil {
		return nil, nil, err
	}
	en, ok := e.Enum(attribute)
	if !ok {
		return nil, nil, fmt.Errorf("model %s has no enum %q", modelName, attribute)
	}
	return e, en, nil
}

func (a *app) find(ctx context.Context, modelName, id string) (*model.Document, error) {
	e, err := a.entry(modelName)
	if err != nil {
		return nil, err
	}
	return e.Model.Find(ctx, a.repo, id)
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
