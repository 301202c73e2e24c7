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

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	Update(ctx context.Context, problem *model.Problem) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	FindBySlug(ctx context.Context, slug string) (*model.Problem, error)
	List(ctx context.Context, limit, offset int) ([]model.Problem, int, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	query := `INSERT INTO problems (id, title, slug, description, created_by)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Title, p.Slug, p.Description, p.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) Update(ctx context.Context, p *model.Problem) error {
	query := `UPDATE problems SET
	            title = $1, description = $2, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, p.Title, p.Description, p.ID)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a problem; parts cascade at the schema level, and their
// submissions are detached (part_id set NULL), not deleted.
func (r *pgProblemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgProblemRepository) FindBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	return r.findBy(ctx, "slug", slug)
}

func (r *pgProblemRepository) findBy(ctx context.Context, column, value string) (*model.Problem, error) {
	query := `SELECT id, title, slug, description, created_by, created_at, updated_at
	          FROM problems WHERE ` + column + ` = $1`
	p := &model.Problem{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.CreatedByID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.findBy %s: %w", column, err)
	}
	return p, nil
}

func (r *pgProblemRepository) List(ctx context.Context, limit, offset int) ([]model.Problem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List count: %w", err)
	}

	query := `SELECT id, title, slug, description, created_by, created_at, updated_at
	          FROM problems ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.CreatedByID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgProblemRepository.List scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List rows.Err: %w", err)
	}
	return problems, total, nil
}
