package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// GenerationRepositoryPG implements domain.GenerationRepository.
type GenerationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a generation repository backed by PostgreSQL.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{pool: pool}
}

// Create inserts a new generation record.
func (r *GenerationRepositoryPG) Create(ctx context.Context, rec *domain.GenerationRecord) error {
	query := `
INSERT INTO generations (id, jewellery_type, gender, video_type, status, video_url, final_prompt, qa_score, iterations)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.JewelleryType,
		rec.Gender,
		rec.VideoType,
		rec.Status,
		rec.VideoURL,
		rec.FinalPrompt,
		rec.QAScore,
		rec.Iterations,
	)
	return err
}

// GetByID fetches a generation record by its identifier.
func (r *GenerationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error) {
	query := `
SELECT id, jewellery_type, gender, video_type, status, video_url, final_prompt, qa_score, iterations, created_at
FROM generations
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var rec domain.GenerationRecord
	if err := row.Scan(
		&rec.ID,
		&rec.JewelleryType,
		&rec.Gender,
		&rec.VideoType,
		&rec.Status,
		&rec.VideoURL,
		&rec.FinalPrompt,
		&rec.QAScore,
		&rec.Iterations,
		&rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// List returns the most recent generation records.
func (r *GenerationRepositoryPG) List(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
SELECT id, jewellery_type, gender, video_type, status, video_url, final_prompt, qa_score, iterations, created_at
FROM generations
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.GenerationRecord
	for rows.Next() {
		var rec domain.GenerationRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.JewelleryType,
			&rec.Gender,
			&rec.VideoType,
			&rec.Status,
			&rec.VideoURL,
			&rec.FinalPrompt,
			&rec.QAScore,
			&rec.Iterations,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

var _ domain.GenerationRepository = (*GenerationRepositoryPG)(nil)
