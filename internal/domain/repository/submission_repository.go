package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"
)

// SubmissionRepository is the persistence side of the append-only ledger.
// There is deliberately no update or delete method.
type SubmissionRepository interface {
	// Create persists the submission atomically and, in the same
	// transaction, makes sure a score row exists for the user.
	Create(ctx context.Context, sub *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error)

	// GradedAttemptsByUser returns every submission of the user joined with
	// the current part points. Parts deleted since submission come back with
	// nil part fields.
	GradedAttemptsByUser(ctx context.Context, userID string) ([]model.GradedAttempt, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO submissions (id, user_id, part_id, content, is_correct, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, query, sub.ID, sub.UserID, sub.PartID, sub.Content, sub.IsCorrect, sub.SubmittedAt); err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create insert: %w", err)
	}

	// Lazily create the user's score entity on first submission.
	ensure := `INSERT INTO scores (user_id, points) VALUES ($1, 0)
	           ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, ensure, sub.UserID); err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create ensure score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create commit: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT s.id, s.user_id, s.part_id, s.content, s.is_correct, s.submitted_at,
	                 pt.title, pr.slug
	          FROM submissions s
	          LEFT JOIN parts pt ON s.part_id = pt.id
	          LEFT JOIN problems pr ON pt.problem_id = pr.id
	          WHERE s.id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.PartID, &sub.Content, &sub.IsCorrect, &sub.SubmittedAt,
		&sub.PartTitle, &sub.ProblemSlug,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser count: %w", err)
	}

	query := `SELECT s.id, s.user_id, s.part_id, s.content, s.is_correct, s.submitted_at,
	                 pt.title, pr.slug
	          FROM submissions s
	          LEFT JOIN parts pt ON s.part_id = pt.id
	          LEFT JOIN problems pr ON pt.problem_id = pr.id
	          WHERE s.user_id = $1
	          ORDER BY s.submitted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.UserID, &s.PartID, &s.Content, &s.IsCorrect, &s.SubmittedAt,
			&s.PartTitle, &s.ProblemSlug); err != nil {
			return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser rows.Err: %w", err)
	}
	return subs, total, nil
}

func (r *pgSubmissionRepository) GradedAttemptsByUser(ctx context.Context, userID string) ([]model.GradedAttempt, error) {
	query := `SELECT s.part_id, pt.points, s.is_correct
	          FROM submissions s
	          LEFT JOIN parts pt ON s.part_id = pt.id
	          WHERE s.user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.GradedAttemptsByUser query: %w", err)
	}
	defer rows.Close()

	var attempts []model.GradedAttempt
	for rows.Next() {
		var a model.GradedAttempt
		if err := rows.Scan(&a.PartID, &a.PartPoints, &a.IsCorrect); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.GradedAttemptsByUser scan: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.GradedAttemptsByUser rows.Err: %w", err)
	}
	return attempts, nil
}
