// Package repository keeps the sandbox's users, products and media in
// memory. Lists come back in insertion order.
package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"marketplace/client/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRecord struct {
	models.User
	PasswordHash []byte
	AvatarType   string
	AvatarData   []byte
}

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]UserRecord
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrEmailTaken
	}
	r.byID[user.ID] = user
	r.byEmail[email] = user.ID
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

// SetAvatar replaces the user's avatar name and image bytes.
func (r *UserRepository) SetAvatar(_ context.Context, id, name, contentType string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Avatar = &name
	user.AvatarType = contentType
	user.AvatarData = data
	r.byID[id] = user
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
