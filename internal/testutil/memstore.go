// Package testutil holds in-memory doubles shared by handler and router tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"authdesk/internal/model"
)

var _ model.UserStore = (*MemoryUserStore)(nil)

// MemoryUserStore is a model.UserStore kept in a map. Err, when set, is
// returned by every method.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
	seq   time.Time
	Err   error
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: map[uuid.UUID]model.User{},
		seq:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Put stores u as-is, bypassing the email check. Useful for seeding admins.
func (m *MemoryUserStore) Put(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.tick()
		u.UpdatedAt = u.CreatedAt
	}
	m.users[u.ID] = u
}

// Len returns the number of stored users.
func (m *MemoryUserStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *MemoryUserStore) tick() time.Time {
	m.seq = m.seq.Add(time.Second)
	return m.seq
}

func (m *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *MemoryUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case err == model.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (m *MemoryUserStore) emailTakenBy(email string, except uuid.UUID) bool {
	for id, u := range m.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (m *MemoryUserStore) Create(_ context.Context, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.emailTakenBy(u.Email, uuid.Nil) {
		return nil, model.ErrEmailTaken
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.CreatedAt = m.tick()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return u, nil
}

func (m *MemoryUserStore) UpdateProfile(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cur, ok := m.users[u.ID]
	if !ok {
		return model.ErrNotFound
	}
	if m.emailTakenBy(u.Email, u.ID) {
		return model.ErrEmailTaken
	}
	cur.FullName = u.FullName
	cur.Email = u.Email
	cur.UpdatedAt = m.tick()
	m.users[u.ID] = cur
	return nil
}

func (m *MemoryUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cur, ok := m.users[id]
	if !ok {
		return model.ErrNotFound
	}
	cur.PasswordHash = passwordHash
	cur.UpdatedAt = m.tick()
	m.users[id] = cur
	return nil
}

func (m *MemoryUserStore) ToggleActive(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	cur, ok := m.users[id]
	if !ok {
		return false, model.ErrNotFound
	}
	cur.IsActive = !cur.IsActive
	cur.UpdatedAt = m.tick()
	m.users[id] = cur
	return cur.IsActive, nil
}

func (m *MemoryUserStore) List(_ context.Context, offset, limit int) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		u.PasswordHash = ""
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []model.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MemoryUserStore) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.users), nil
}
