// Package session holds the identity of the currently logged-in user.
//
// A Context is created once per process and handed to every controller that
// needs the submitter's email. Controllers only read it; the user slot is
// written by Login and cleared by Logout.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
)

type Context struct {
	mu   sync.RWMutex
	user *domain.LoggedInUser
}

// New returns a Context with nobody logged in.
func New() *Context {
	return &Context{}
}

// User returns a copy of the logged-in user.
func (c *Context) User() (domain.LoggedInUser, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return domain.LoggedInUser{}, false
	}
	return *c.user, true
}

// Email returns the logged-in user's email, or "" when nobody is logged in.
func (c *Context) Email() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return ""
	}
	return c.user.Email
}

func (c *Context) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

// Login authenticates against a and, on success, replaces the current user.
// A failed login leaves any previous user in place.
func (c *Context) Login(ctx context.Context, a ports.Authenticator, email, password string) (domain.LoggedInUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.LoggedInUser{}, &domain.ValidationError{
			Field:   "email",
			Label:   "Email",
			Message: "Please enter your email and password.",
		}
	}
	u, err := a.Login(ctx, email, password)
	if err != nil {
		return domain.LoggedInUser{}, fmt.Errorf("login %s: %w", email, err)
	}
	if u == nil {
		u = &domain.LoggedInUser{}
	}
	if u.Email == "" {
		u.Email = email
	}
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
	return *u, nil
}

// Logout clears the current user.
func (c *Context) Logout() {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
}

var _ ports.Identity = (*Context)(nil)
