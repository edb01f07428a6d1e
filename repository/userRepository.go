// Package repository stores user accounts and revoked session tokens.
package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"citymapper-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("user with this email already exists")
)

// UserRepository persists registered accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// MemoryUserRepository keeps accounts for the lifetime of the process. Used
// when no MongoDB is configured and in tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    map[primitive.ObjectID]models.User{},
		byEmail: map[string]primitive.ObjectID{},
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return ErrEmailTaken
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = email
	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[objectID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
