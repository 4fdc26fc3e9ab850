package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
)

// SeedUser creates a login account unless one with the same email exists.
// It reports whether an account was created.
func SeedUser(ctx context.Context, store ports.RecordStore, password string, profile domain.LoggedInUser) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" || password == "" {
		return false, errors.New("seed user: email and password are required")
	}
	if _, err := store.FindUserByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("seed user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("seed user: hash password: %w", err)
	}
	profile.Email = email
	if err := store.CreateUser(ctx, &domain.StoredUser{
		Email:        email,
		PasswordHash: string(hash),
		Profile:      profile,
	}); err != nil {
		return false, fmt.Errorf("seed user: %w", err)
	}
	return true, nil
}
