package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. All operations hold a
// single mutex, which makes ConsumeResetToken a compare-and-set.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]string
	now     func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}

	stored := *user
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *r.byID[id]
	return &u, nil
}


func (r *MemoryRepository) SetResetToken(_ context.Context, userID, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.ResetToken = token
	stored.ResetTokenExpires = expires
	return nil
}

func (r *MemoryRepository) ConsumeResetToken(_ context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token == "" {
		return nil, common.ErrorNotFound
	}
	for _, stored := range r.byID {
		if stored.ResetToken != token {
			continue
		}
		if !stored.HasPendingReset(now) {
			return nil, common.ErrorNotFound
		}
		stored.PasswordHash = passwordHash
		stored.ResetToken = ""
		stored.ResetTokenExpires = time.Time{}
		u := *stored
		return &u, nil
	}
	return nil, common.ErrorNotFound
}
