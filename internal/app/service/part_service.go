package service

import (
	"context"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"
	"contestjam/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type PartService struct {
	partRepo    repository.PartRepository
	problemRepo repository.ProblemRepository
}

func NewPartService(partRepo repository.PartRepository, problemRepo repository.ProblemRepository) *PartService {
	return &PartService{partRepo: partRepo, problemRepo: problemRepo}
}

type CreatePartRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Points   int    `json:"points"`
	Input    string `json:"input"`
	Solution string `json:"solution"`
}

type UpdatePartRequest struct {
	Title    *string `json:"title,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	Points   *int    `json:"points,omitempty"`
	Input    *string `json:"input,omitempty"`
	Solution *string `json:"solution,omitempty"`
}

func (s *PartService) CreatePart(ctx context.Context, problemSlug string, req CreatePartRequest) (*model.Part, error) {
	if req.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrBadRequest)
	}
	if req.Points < 0 {
		return nil, common.Errorf("points must be non-negative: %w", common.ErrValidation)
	}

	problem, err := s.problemRepo.FindBySlug(ctx, problemSlug)
	if err != nil {
		return nil, err
	}

	partSlug := req.Slug
	if partSlug == "" {
		partSlug = slug.Make(req.Title)
	}

	part := &model.Part{
		ID:        uuid.NewString(),
		ProblemID: problem.ID,
		Title:     req.Title,
		Slug:      partSlug,
		Points:    req.Points,
		Input:     req.Input,
		Solution:  req.Solution,
	}
	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, common.Errorf("failed to create part: %w", err)
	}
	return part, nil
}

// UpdatePart edits the part in place. Already-graded submissions keep their
// verdicts: correctness is a creation-time snapshot, never re-derived.
func (s *PartService) UpdatePart(ctx context.Context, problemSlug, partSlug string, req UpdatePartRequest) (*model.Part, error) {
	part, err := s.findPart(ctx, problemSlug, partSlug)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		part.Title = *req.Title
	}
	if req.Slug != nil {
		part.Slug = *req.Slug
	}
	if req.Points != nil {
		part.Points = *req.Points
	}
	if req.Input != nil {
		part.Input = *req.Input
	}
	if req.Solution != nil {
		part.Solution = *req.Solution
	}
	if part.Title == "" || part.Slug == "" {
		return nil, common.Errorf("title and slug cannot be empty: %w", common.ErrBadRequest)
	}
	if part.Points < 0 {
		return nil, common.Errorf("points must be non-negative: %w", common.ErrValidation)
	}
	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, common.Errorf("failed to update part: %w", err)
	}
	return part, nil
}

func (s *PartService) DeletePart(ctx context.Context, problemSlug, partSlug string) error {
	part, err := s.findPart(ctx, problemSlug, partSlug)
	if err != nil {
		return err
	}
	return s.partRepo.Delete(ctx, part.ID)
}

func (s *PartService) GetPart(ctx context.Context, problemSlug, partSlug string) (*model.Part, error) {
	return s.findPart(ctx, problemSlug, partSlug)
}

// PartInput serves the downloadable input payload. The solution never leaves
// the service layer.
func (s *PartService) PartInput(ctx context.Context, problemSlug, partSlug string) (string, error) {
	part, err := s.findPart(ctx, problemSlug, partSlug)
	if err != nil {
		return "", err
	}
	return part.Input, nil
}

func (s *PartService) findPart(ctx context.Context, problemSlug, partSlug string) (*model.Part, error) {
	problem, err := s.problemRepo.FindBySlug(ctx, problemSlug)
	if err != nil {
		return nil, err
	}
	return s.partRepo.FindBySlug(ctx, problem.ID, partSlug)
}
