package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"contestjam/internal/common"
	"contestjam/internal/domain/model"
)

// In-memory repository fakes. They emulate the same join semantics as the
// Postgres implementations: deleting a part makes its submissions come back
// with nil part fields from GradedAttemptsByUser.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.ErrConflict
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.findBy(func(u model.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return f.findBy(func(u model.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return f.findBy(func(u model.User) bool { return u.ID == id })
}

func (f *fakeUserRepo) findBy(match func(model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakePartRepo struct {
	mu    sync.Mutex
	parts map[string]model.Part
}

func newFakePartRepo() *fakePartRepo {
	return &fakePartRepo{parts: make(map[string]model.Part)}
}

func (f *fakePartRepo) Create(ctx context.Context, p *model.Part) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.parts {
		if existing.ProblemID == p.ProblemID && existing.Slug == p.Slug {
			return common.ErrConflict
		}
	}
	f.parts[p.ID] = *p
	return nil
}

func (f *fakePartRepo) Update(ctx context.Context, p *model.Part) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.parts[p.ID]; !ok {
		return common.ErrNotFound
	}
	f.parts[p.ID] = *p
	return nil
}

func (f *fakePartRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.parts[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.parts, id)
	return nil
}

func (f *fakePartRepo) FindByID(ctx context.Context, id string) (*model.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.parts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (f *fakePartRepo) FindBySlug(ctx context.Context, problemID, slug string) (*model.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.parts {
		if p.ProblemID == problemID && p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakePartRepo) ListByProblem(ctx context.Context, problemID string) ([]model.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var parts []model.Part
	for _, p := range f.parts {
		if p.ProblemID == problemID {
			parts = append(parts, p)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Slug < parts[j].Slug })
	return parts, nil
}

type fakeProblemRepo struct {
	mu       sync.Mutex
	problems map[string]model.Problem
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{problems: make(map[string]model.Problem)}
}

func (f *fakeProblemRepo) Create(ctx context.Context, p *model.Problem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.problems {
		if existing.Slug == p.Slug {
			return common.ErrConflict
		}
	}
	f.problems[p.ID] = *p
	return nil
}

func (f *fakeProblemRepo) Update(ctx context.Context, p *model.Problem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.problems[p.ID]; !ok {
		return common.ErrNotFound
	}
	f.problems[p.ID] = *p
	return nil
}

func (f *fakeProblemRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.problems[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.problems, id)
	return nil
}

func (f *fakeProblemRepo) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProblemRepo) FindBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.problems {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeProblemRepo) List(ctx context.Context, limit, offset int) ([]model.Problem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var problems []model.Problem
	for _, p := range f.problems {
		problems = append(problems, p)
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].Slug < problems[j].Slug })
	return problems, len(problems), nil
}

type fakeSubmissionRepo struct {
	mu        sync.Mutex
	subs      []model.Submission
	partRepo  *fakePartRepo
	scoreRepo *fakeScoreRepo
}

func newFakeSubmissionRepo(partRepo *fakePartRepo, scoreRepo *fakeScoreRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{partRepo: partRepo, scoreRepo: scoreRepo}
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	f.mu.Lock()
	f.subs = append(f.subs, *sub)
	f.mu.Unlock()
	// Mirror the pg repo: creating a submission ensures a score row.
	f.scoreRepo.ensure(sub.UserID)
	return nil
}

func (f *fakeSubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeSubmissionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var subs []model.Submission
	for _, s := range f.subs {
		if s.UserID == userID {
			subs = append(subs, s)
		}
	}
	return subs, len(subs), nil
}

func (f *fakeSubmissionRepo) GradedAttemptsByUser(ctx context.Context, userID string) ([]model.GradedAttempt, error) {
	f.mu.Lock()
	subs := make([]model.Submission, 0, len(f.subs))
	for _, s := range f.subs {
		if s.UserID == userID {
			subs = append(subs, s)
		}
	}
	f.mu.Unlock()

	var attempts []model.GradedAttempt
	for _, s := range subs {
		a := model.GradedAttempt{IsCorrect: s.IsCorrect}
		if s.PartID != nil {
			if part, err := f.partRepo.FindByID(ctx, *s.PartID); err == nil {
				a.PartID = s.PartID
				points := part.Points
				a.PartPoints = &points
			}
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

type fakeScoreRepo struct {
	mu        sync.Mutex
	scores    map[string]model.Score
	usernames map[string]string
}

func newFakeScoreRepo(usernames map[string]string) *fakeScoreRepo {
	if usernames == nil {
		usernames = make(map[string]string)
	}
	return &fakeScoreRepo{scores: make(map[string]model.Score), usernames: usernames}
}

func (f *fakeScoreRepo) ensure(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.scores[userID]; !ok {
		f.scores[userID] = model.Score{UserID: userID}
	}
}

func (f *fakeScoreRepo) Upsert(ctx context.Context, userID string, points int, recomputedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[userID] = model.Score{UserID: userID, Points: points, RecomputedAt: recomputedAt}
	return nil
}

func (f *fakeScoreRepo) FindByUser(ctx context.Context, userID string) (*model.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scores[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (f *fakeScoreRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id := range f.scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeScoreRepo) ListRanked(ctx context.Context) ([]model.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var scores []model.Score
	for id, s := range f.scores {
		if s.Points <= 0 {
			continue
		}
		username := f.usernames[id]
		s.Username = &username
		scores = append(scores, s)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Points != scores[j].Points {
			return scores[i].Points > scores[j].Points
		}
		return *scores[i].Username < *scores[j].Username
	})
	return scores, nil
}

// memLocker is a process-local stand-in for the Redis lock.
type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]bool)}
}

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *memLocker) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
