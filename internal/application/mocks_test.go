package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kopidesk/identity-service/internal/domain/entity"
	"github.com/kopidesk/identity-service/internal/domain/repository"
)

// memoryRepo is an in-memory UserRepository honoring the same contract as
// the postgres implementation: unique emails, not-found reporting, atomic
// verification-code consume. Function fields allow per-test overrides.
type memoryRepo struct {
	mu     sync.Mutex
	seq    int
	users  map[string]*entity.User // by id
	emails map[string]string       // email -> id

	createFunc func(ctx context.Context, u *entity.User) error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:  make(map[string]*entity.User),
		emails: make(map[string]string),
	}
}

func (m *memoryRepo) Create(ctx context.Context, u *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.emails[u.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	m.emails[u.Email] = u.ID
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m.users[id]
	return &cp, nil
}

func (m *memoryRepo) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *m.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryRepo) Update(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.emails, old.Email)
	u.UpdatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	m.emails[u.Email] = u.ID
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.emails, u.Email)
	delete(m.users, id)
	return nil
}

func (m *memoryRepo) ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[email]
	if !ok {
		return false, nil
	}
	u := m.users[id]
	if u.IsVerified || u.VerificationCode == "" || u.VerificationCode != code {
		return false, nil
	}
	u.IsVerified = true
	u.VerificationCode = ""
	return true, nil
}

var _ repository.UserRepository = (*memoryRepo)(nil)
