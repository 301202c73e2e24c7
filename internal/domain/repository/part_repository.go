package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type PartRepository interface {
	Create(ctx context.Context, part *model.Part) error
	Update(ctx context.Context, part *model.Part) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Part, error)
	FindBySlug(ctx context.Context, problemID, slug string) (*model.Part, error)
	ListByProblem(ctx context.Context, problemID string) ([]model.Part, error)
}

type pgPartRepository struct {
	db *sql.DB
}

func NewPgPartRepository(db *sql.DB) PartRepository {
	return &pgPartRepository{db: db}
}

func (r *pgPartRepository) Create(ctx context.Context, p *model.Part) error {
	query := `INSERT INTO parts (id, problem_id, title, slug, points, input, solution)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.ProblemID, p.Title, p.Slug, p.Points, p.Input, p.Solution)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // slug unique within problem
			return fmt.Errorf("part with this slug already exists in the problem: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPartRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPartRepository) Update(ctx context.Context, p *model.Part) error {
	query := `UPDATE parts SET
	            title = $1, slug = $2, points = $3, input = $4, solution = $5, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, p.Title, p.Slug, p.Points, p.Input, p.Solution, p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("part with this slug already exists in the problem: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPartRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete detaches submissions (part_id set NULL by the FK) so the ledger
// stays append-only; the part's points simply stop contributing.
func (r *pgPartRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPartRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPartRepository) FindByID(ctx context.Context, id string) (*model.Part, error) {
	query := `SELECT id, problem_id, title, slug, points, input, solution, created_at, updated_at
	          FROM parts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *pgPartRepository) FindBySlug(ctx context.Context, problemID, slug string) (*model.Part, error) {
	query := `SELECT id, problem_id, title, slug, points, input, solution, created_at, updated_at
	          FROM parts WHERE problem_id = $1 AND slug = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, problemID, slug))
}

func (r *pgPartRepository) scanOne(row *sql.Row) (*model.Part, error) {
	p := &model.Part{}
	err := row.Scan(&p.ID, &p.ProblemID, &p.Title, &p.Slug, &p.Points, &p.Input, &p.Solution, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPartRepository.scanOne: %w", err)
	}
	return p, nil
}

func (r *pgPartRepository) ListByProblem(ctx context.Context, problemID string) ([]model.Part, error) {
	query := `SELECT id, problem_id, title, slug, points, input, solution, created_at, updated_at
	          FROM parts WHERE problem_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgPartRepository.ListByProblem query: %w", err)
	}
	defer rows.Close()

	var parts []model.Part
	for rows.Next() {
		var p model.Part
		if err := rows.Scan(&p.ID, &p.ProblemID, &p.Title, &p.Slug, &p.Points, &p.Input, &p.Solution, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgPartRepository.ListByProblem scan: %w", err)
		}
		parts = append(parts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPartRepository.ListByProblem rows.Err: %w", err)
	}
	return parts, nil
}
