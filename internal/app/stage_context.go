package app

import (
	"context"

	"brewboxes/internal/buildctx"
)

// ContextStage writes the ephemeral build context. The launch releases it on
// every exit path once it is set on the state.
type ContextStage struct {
	create func(imageRef string) (*buildctx.Context, error)
}

func NewContextStage(create func(imageRef string) (*buildctx.Context, error)) *ContextStage {
	if create == nil {
		create = buildctx.Create
	}
	return &ContextStage{create: create}
}

func (s *ContextStage) Name() string {
	return StageContext
}

func (s *ContextStage) Execute(ctx context.Context, state *LaunchState) error {
	bctx, err := s.create(state.ImageRef)
	if err != nil {
		return err
	}
	state.BuildContext = bctx
	return nil
}
