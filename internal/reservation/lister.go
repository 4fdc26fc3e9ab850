// Package reservation lists and deletes the records a user has submitted.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
)

// Keys lifted out of a raw record; everything else lands in Details.
var (
	idKeys   = []string{"id", "_id"}
	dateKeys = []string{"date", "preferred_date", "reservation_date"}
	timeKeys = []string{"time", "preferred_time", "reservation_time"}
)

type Lister struct {
	api      ports.ReservationAPI
	identity ports.Identity
	alerts   ports.Alerter
	log      *zap.Logger

	mu         sync.Mutex
	email      string
	items      []domain.Reservation
	loading    bool
	refreshing bool
	err        error
}

// New returns a lister. identity may be nil when the email always comes from
// the caller.
func New(api ports.ReservationAPI, identity ports.Identity, alerts ports.Alerter, log *zap.Logger) *Lister {
	if log == nil {
		log = zap.NewNop()
	}
	return &Lister{api: api, identity: identity, alerts: alerts, log: log}
}

// Load fetches the reservations of routeEmail, or of the logged-in user when
// routeEmail is blank.
func (l *Lister) Load(ctx context.Context, routeEmail string) error {
	email := normalizeEmail(routeEmail)
	if email == "" && l.identity != nil {
		email = normalizeEmail(l.identity.Email())
	}

	l.mu.Lock()
	if email == "" {
		l.err = domain.ErrNoEmail
		l.items = nil
		l.mu.Unlock()
		return domain.ErrNoEmail
	}
	l.email = email
	l.loading = true
	l.mu.Unlock()

	err := l.fetch(ctx, email)

	l.mu.Lock()
	l.loading = false
	l.mu.Unlock()
	return err
}

// Refresh reloads the current email's reservations.
func (l *Lister) Refresh(ctx context.Context) error {
	l.mu.Lock()
	email := l.email
	if email == "" {
		l.mu.Unlock()
		return domain.ErrNoEmail
	}
	l.refreshing = true
	l.mu.Unlock()

	err := l.fetch(ctx, email)

	l.mu.Lock()
	l.refreshing = false
	l.mu.Unlock()
	return err
}

func (l *Lister) fetch(ctx context.Context, email string) error {
	raw, err := l.api.ListReservations(ctx, email)
	if err != nil {
		l.log.Warn("list reservations", zap.String("email", email), zap.Error(err))
		l.mu.Lock()
		l.err = err
		l.mu.Unlock()
		return fmt.Errorf("list reservations: %w", err)
	}
	items := make([]domain.Reservation, 0, len(raw))
	for _, r := range raw {
		items = append(items, Normalize(r))
	}
	l.log.Debug("reservations loaded", zap.String("email", email), zap.Int("count", len(items)))

	l.mu.Lock()
	l.items = items
	l.err = nil
	l.mu.Unlock()
	return nil
}

// Delete removes one reservation on the server, then from the local list.
// collection is the record's type tag.
func (l *Lister) Delete(ctx context.Context, id, collection string) error {
	l.mu.Lock()
	email := l.email
	l.mu.Unlock()
	if email == "" {
		return domain.ErrNoEmail
	}

	resp, err := l.api.DeleteReservation(ctx, id, email, collection)
	if err == nil && !resp.OK() {
		err = &domain.APIError{Status: resp.Status, Message: resp.Message}
	}
	if err != nil {
		msg := "Failed to delete reservation. Please try again."
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		l.alerts.Alert(domain.Alert{Kind: domain.AlertError, Title: "Error", Message: msg})
		return fmt.Errorf("delete reservation %s: %w", id, err)
	}

	l.mu.Lock()
	kept := l.items[:0:0]
	for _, it := range l.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	l.items = kept
	l.mu.Unlock()

	msg := resp.Message
	if msg == "" {
		msg = "Reservation deleted successfully."
	}
	l.alerts.Alert(domain.Alert{Kind: domain.AlertSuccess, Title: "Success", Message: msg})
	return nil
}

// Items returns a copy of the current list.
func (l *Lister) Items() []domain.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Reservation, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Lister) Email() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.email
}

func (l *Lister) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *Lister) Refreshing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshing
}

// Err is the error of the last load, or nil.
func (l *Lister) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Normalize maps a raw server record to a Reservation.
func Normalize(raw map[string]any) domain.Reservation {
	r := domain.Reservation{Details: map[string]any{}}
	used := map[string]bool{"type": true, "status": true, "email": true}

	r.ID = first(raw, idKeys, used)
	r.Date = first(raw, dateKeys, used)
	r.Time = first(raw, timeKeys, used)
	r.Type = text(raw["type"])
	r.Service = catalog.ServiceName(r.Type)
	r.Email = text(raw["email"])
	r.Status = domain.Status(text(raw["status"]))
	if r.Status == "" {
		r.Status = domain.StatusPending
	}
	for k, v := range raw {
		if !used[k] {
			r.Details[k] = v
		}
	}
	return r
}

func first(raw map[string]any, keys []string, used map[string]bool) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			used[k] = true
			return text(v)
		}
	}
	return ""
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprint(x)
	default:
		return fmt.Sprint(x)
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
