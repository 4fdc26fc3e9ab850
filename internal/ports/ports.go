package ports

import (
	"context"
	"time"

	"github.com/csg33k/parish-services/internal/domain"
)

// FormSubmitter posts a form payload to the Remote API.
type FormSubmitter interface {
	// Submit returns the decoded response envelope. Transport failures,
	// empty bodies and non-JSON bodies are returned as *domain.NetworkError,
	// domain.ErrEmptyResponse and *domain.MalformedResponseError.
	Submit(ctx context.Context, form domain.FormType, payload map[string]any) (*domain.Response, error)
}

// Authenticator exchanges credentials for a user identity.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.LoggedInUser, error)
}

// ReservationAPI reads and deletes previously submitted records.
type ReservationAPI interface {
	ListReservations(ctx context.Context, email string) ([]map[string]any, error)
	DeleteReservation(ctx context.Context, id, email, collection string) (*domain.Response, error)
}

// Identity is the read side of the auth context.
type Identity interface {
	Email() string
	LoggedIn() bool
}

// Alerter shows blocking messages and yes/no confirmations.
type Alerter interface {
	Alert(a domain.Alert)
	Confirm(title, message string) bool
}

// Navigator moves between screens.
type Navigator interface {
	Back()
	Navigate(route string)
}

// Animator runs an opacity transition and calls done once it has finished.
type Animator interface {
	Fade(from, to float64, d time.Duration, done func())
}

// RecordStore persists submissions and users for the development API.
type RecordStore interface {
	CreateRecord(ctx context.Context, r *domain.Record) error
	ListRecords(ctx context.Context, email string) ([]domain.Record, error)
	DeleteRecord(ctx context.Context, id, email, collection string) (bool, error)

	CreateUser(ctx context.Context, u *domain.StoredUser) error
	FindUserByEmail(ctx context.Context, email string) (*domain.StoredUser, error)
}
