package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"
)

type ScoreRepository interface {
	// Upsert fully replaces the cached points for the user (never
	// incremental).
	Upsert(ctx context.Context, userID string, points int, recomputedAt time.Time) error
	FindByUser(ctx context.Context, userID string) (*model.Score, error)
	// ListUserIDs returns every user holding a score row, i.e. every user
	// who has ever submitted.
	ListUserIDs(ctx context.Context) ([]string, error)
	// ListRanked returns strictly positive scores ordered by points
	// descending, ties broken by username ascending.
	ListRanked(ctx context.Context) ([]model.Score, error)
}

type pgScoreRepository struct {
	db *sql.DB
}

func NewPgScoreRepository(db *sql.DB) ScoreRepository {
	return &pgScoreRepository{db: db}
}

func (r *pgScoreRepository) Upsert(ctx context.Context, userID string, points int, recomputedAt time.Time) error {
	query := `INSERT INTO scores (user_id, points, recomputed_at) VALUES ($1, $2, $3)
	          ON CONFLICT (user_id) DO UPDATE SET points = $2, recomputed_at = $3`
	if _, err := r.db.ExecContext(ctx, query, userID, points, recomputedAt); err != nil {
		return fmt.Errorf("pgScoreRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgScoreRepository) FindByUser(ctx context.Context, userID string) (*model.Score, error) {
	query := `SELECT user_id, points, recomputed_at FROM scores WHERE user_id = $1`
	s := &model.Score{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.Points, &s.RecomputedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgScoreRepository.FindByUser: %w", err)
	}
	return s, nil
}

func (r *pgScoreRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM scores`)
	if err != nil {
		return nil, fmt.Errorf("pgScoreRepository.ListUserIDs query: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgScoreRepository.ListUserIDs scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgScoreRepository.ListUserIDs rows.Err: %w", err)
	}
	return ids, nil
}

func (r *pgScoreRepository) ListRanked(ctx context.Context) ([]model.Score, error) {
	query := `SELECT s.user_id, s.points, s.recomputed_at, u.username
	          FROM scores s
	          JOIN users u ON s.user_id = u.id
	          WHERE s.points > 0
	          ORDER BY s.points DESC, u.username ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgScoreRepository.ListRanked query: %w", err)
	}
	defer rows.Close()

	scores := []model.Score{}
	for rows.Next() {
		var s model.Score
		if err := rows.Scan(&s.UserID, &s.Points, &s.RecomputedAt, &s.Username); err != nil {
			return nil, fmt.Errorf("pgScoreRepository.ListRanked scan: %w", err)
		}
		scores = append(scores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgScoreRepository.ListRanked rows.Err: %w", err)
	}
	return scores, nil
}
