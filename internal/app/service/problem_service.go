package service

import (
	"context"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"
	"contestjam/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
	partRepo    repository.PartRepository
}

func NewProblemService(problemRepo repository.ProblemRepository, partRepo repository.PartRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo, partRepo: partRepo}
}

type CreateProblemRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type UpdateProblemRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *ProblemService) CreateProblem(ctx context.Context, userID string, req CreateProblemRequest) (*model.Problem, error) {
	if req.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrBadRequest)
	}
	problemSlug := req.Slug
	if problemSlug == "" {
		problemSlug = slug.Make(req.Title)
	}

	problem := &model.Problem{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        problemSlug,
		Description: req.Description,
		CreatedByID: &userID,
	}
	if err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, common.Errorf("failed to create problem: %w", err)
	}
	return problem, nil
}

func (s *ProblemService) UpdateProblem(ctx context.Context, problemSlug string, req UpdateProblemRequest) (*model.Problem, error) {
	problem, err := s.problemRepo.FindBySlug(ctx, problemSlug)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		problem.Title = *req.Title
	}
	if req.Description != nil {
		problem.Description = *req.Description
	}
	if problem.Title == "" {
		return nil, common.Errorf("title cannot be empty: %w", common.ErrBadRequest)
	}
	if err := s.problemRepo.Update(ctx, problem); err != nil {
		return nil, common.Errorf("failed to update problem: %w", err)
	}
	return problem, nil
}

// DeleteProblem cascades to the problem's parts; submissions against those
// parts are detached, not deleted.
func (s *ProblemService) DeleteProblem(ctx context.Context, problemSlug string) error {
	problem, err := s.problemRepo.FindBySlug(ctx, problemSlug)
	if err != nil {
		return err
	}
	return s.problemRepo.Delete(ctx, problem.ID)
}

// GetProblem returns the problem with its parts. Part inputs and solutions
// are stripped by the model's JSON tags, so this is safe for any caller.
func (s *ProblemService) GetProblem(ctx context.Context, problemSlug string) (*model.Problem, error) {
	problem, err := s.problemRepo.FindBySlug(ctx, problemSlug)
	if err != nil {
		return nil, err
	}
	parts, err := s.partRepo.ListByProblem(ctx, problem.ID)
	if err != nil {
		return nil, common.Errorf("failed to load parts: %w", err)
	}
	problem.Parts = parts
	return problem, nil
}

func (s *ProblemService) ListProblems(ctx context.Context, page, pageSize int) ([]model.Problem, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.problemRepo.List(ctx, pageSize, (page-1)*pageSize)
}
