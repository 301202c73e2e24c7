package service

import (
	"context"
	"errors"
	"time"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"
	"contestjam/internal/domain/repository"

	"github.com/google/uuid"
)

// SubmissionService is the submission ledger: it records attempts and grades
// them once, at creation time. Entries are immutable afterwards; score
// aggregation picks them up on the next scan (write-then-lazily-read).
type SubmissionService struct {
	submissionRepo  repository.SubmissionRepository
	partRepo        repository.PartRepository
	userRepo        repository.UserRepository
	maxContentBytes int
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	partRepo repository.PartRepository,
	userRepo repository.UserRepository,
	maxContentBytes int,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo:  subRepo,
		partRepo:        partRepo,
		userRepo:        userRepo,
		maxContentBytes: maxContentBytes,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, userID, partID, content string) (*model.Submission, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("unrecognized identity: %w", common.ErrUnauthorized)
		}
		return nil, common.Errorf("failed to look up user: %w", err)
	}

	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("part does not exist: %w", common.ErrValidation)
		}
		return nil, common.Errorf("failed to look up part: %w", err)
	}

	if s.maxContentBytes > 0 && len(content) > s.maxContentBytes {
		return nil, common.Errorf("content exceeds %d bytes: %w", s.maxContentBytes, common.ErrContentTooLarge)
	}

	submission := &model.Submission{
		ID:          uuid.NewString(),
		UserID:      userID,
		PartID:      &part.ID,
		Content:     content,
		IsCorrect:   Grade(content, part.Solution),
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, common.Errorf("failed to record submission: %w", err)
	}
	return submission, nil
}

// GetSubmission returns a single ledger entry; visible to its owner and
// admins only.
func (s *SubmissionService) GetSubmission(ctx context.Context, requesterID, requesterRole, id string) (*model.Submission, error) {
	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != requesterID && requesterRole != model.RoleAdmin {
		return nil, common.ErrForbidden
	}
	return sub, nil
}

func (s *SubmissionService) ListMySubmissions(ctx context.Context, userID string, page, pageSize int) ([]model.Submission, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.submissionRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
}
