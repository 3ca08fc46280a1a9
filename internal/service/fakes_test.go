package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}

	for column, value := range fields {
		switch column {
		case "name":
			u.Name = value.(string)
		case "phone":
			u.Phone = value.(string)
		case "password_hash":
			u.PasswordHash = value.(string)
		case "is_active":
			u.IsActive = value.(bool)
		default:
			return errors.New("unexpected column: " + column)
		}
	}
	u.UpdatedAt = time.Now()

	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, page, limit int) ([]*domain.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeResetCodeRepo is an in-memory ResetCodeRepository.
type fakeResetCodeRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.ResetCode
}

func newFakeResetCodeRepo() *fakeResetCodeRepo {
	return &fakeResetCodeRepo{rows: map[string]*domain.ResetCode{}}
}

func (r *fakeResetCodeRepo) Upsert(ctx context.Context, code *domain.ResetCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *code
	r.rows[code.UserID] = &clone
	return nil
}

func (r *fakeResetCodeRepo) FindByUserID(ctx context.Context, userID string) (*domain.ResetCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *fakeResetCodeRepo) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[userID]; ok {
		row.Code = nil
		row.IssuedAt = nil
		row.ExpiresAt = nil
	}
	return nil
}

// fakeNotifier records dispatched notifications and can be made to fail.
type fakeNotifier struct {
	mu            sync.Mutex
	verifications []string // tokens
	resetCodes    []int
	fail          bool
}

func (n *fakeNotifier) SendVerification(ctx context.Context, user domain.UserView, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail {
		return errors.New("notifier unavailable")
	}
	n.verifications = append(n.verifications, token)
	return nil
}

func (n *fakeNotifier) SendResetCode(ctx context.Context, user domain.UserView, code int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail {
		return errors.New("notifier unavailable")
	}
	n.resetCodes = append(n.resetCodes, code)
	return nil
}

func (n *fakeNotifier) lastResetCode() (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.resetCodes) == 0 {
		return 0, false
	}
	return n.resetCodes[len(n.resetCodes)-1], true
}

// fixedClock is a settable Clock.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{now: now}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequenceCodes yields predetermined codes.
func sequenceCodes(codes ...int) CodeGenerator {
	i := 0
	return CodeGeneratorFunc(func() int {
		code := codes[i%len(codes)]
		i++
		return code
	})
}
