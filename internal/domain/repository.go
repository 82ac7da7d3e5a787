package domain

import "context"

// GenerationRepository records completed generations for later inspection.
// Implementations must be safe for concurrent use.
type GenerationRepository interface {
	Create(ctx context.Context, rec *GenerationRecord) error
	GetByID(ctx context.Context, id string) (*GenerationRecord, error)
	List(ctx context.Context, limit int) ([]GenerationRecord, error)
}
