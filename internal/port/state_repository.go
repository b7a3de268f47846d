package port

import (
	"context"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type StateRepository interface {
	// LoadState returns the stored snapshot, or nil if nothing was saved yet
	LoadState(ctx context.Context) (*domain.Snapshot, error)

	// SaveState replaces the stored snapshot
	SaveState(ctx context.Context, snapshot domain.Snapshot) error
}
