package platform

import (
	"context"

	"github.com/aretw0/loamenum/pkg/core"
)

// New opens a store and wraps it in a core.Service.
//
//	svc, err := platform.New(ctx, "./vault", platform.WithAdapter("sqlite"))
func New(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	repo, err := Open(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}
	return core.NewService(repo, resolve(opts).logger), nil
}
