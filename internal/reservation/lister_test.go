package reservation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/reservation"
)

type deleteCall struct{ id, email, collection string }

type fakeAPI struct {
	mu       sync.Mutex
	records  []map[string]any
	listErr  error
	emails   []string
	deletes  []deleteCall
	delResp  *domain.Response
	delErr   error
	listHook func()
}

func (f *fakeAPI) ListReservations(_ context.Context, email string) ([]map[string]any, error) {
	f.mu.Lock()
	f.emails = append(f.emails, email)
	hook := f.listHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.records, f.listErr
}

func (f *fakeAPI) DeleteReservation(_ context.Context, id, email, collection string) (*domain.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, deleteCall{id, email, collection})
	return f.delResp, f.delErr
}

type fakeAlerts struct{ alerts []domain.Alert }

func (f *fakeAlerts) Alert(a domain.Alert)     { f.alerts = append(f.alerts, a) }
func (f *fakeAlerts) Confirm(_, _ string) bool { return true }

type fakeIdentity struct{ email string }

func (f fakeIdentity) Email() string  { return f.email }
func (f fakeIdentity) LoggedIn() bool { return f.email != "" }

func sample() []map[string]any {
	return []map[string]any{
		{"id": "a1", "type": "baptism_data", "status": "Approved", "date": "12/25/2025", "child_name": "Ana"},
		{"_id": float64(7), "type": "pamisa_data", "preferred_date": "01-02", "preferred_time": "08:00 AM"},
		{"id": "c3", "type": "wedding_data"},
	}
}

func TestNormalize(t *testing.T) {
	got := reservation.Normalize(map[string]any{
		"id":         "a1",
		"type":       "baptism_data",
		"date":       "12/25/2025",
		"time":       "10:00 AM",
		"email":      "maria@example.com",
		"child_name": "Ana",
	})
	want := domain.Reservation{
		ID:      "a1",
		Type:    "baptism_data",
		Service: "Baptism",
		Status:  domain.StatusPending,
		Date:    "12/25/2025",
		Time:    "10:00 AM",
		Email:   "maria@example.com",
		Details: map[string]any{"child_name": "Ana"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_FallbackKeys(t *testing.T) {
	items := make([]domain.Reservation, 0, 3)
	for _, r := range sample() {
		items = append(items, reservation.Normalize(r))
	}
	assert.Equal(t, "7", items[1].ID)
	assert.Equal(t, "01-02", items[1].Date)
	assert.Equal(t, "08:00 AM", items[1].Time)
	assert.Equal(t, "Mass Intention", items[1].Service)
	assert.Equal(t, domain.StatusApproved, items[0].Status)
	assert.Equal(t, "Unknown Service", items[2].Service)
	assert.Empty(t, items[1].Details)
}

func TestLoad_UsesRouteEmailTrimmedAndLowered(t *testing.T) {
	api := &fakeAPI{records: sample()}
	l := reservation.New(api, fakeIdentity{email: "other@example.com"}, &fakeAlerts{}, nil)

	require.NoError(t, l.Load(context.Background(), "  Maria@Example.COM "))
	assert.Equal(t, []string{"maria@example.com"}, api.emails)
	assert.Len(t, l.Items(), 3)
	assert.False(t, l.Loading())
	assert.NoError(t, l.Err())
}

func TestLoad_FallsBackToIdentity(t *testing.T) {
	api := &fakeAPI{}
	l := reservation.New(api, fakeIdentity{email: "Juan@Example.com"}, &fakeAlerts{}, nil)
	require.NoError(t, l.Load(context.Background(), ""))
	assert.Equal(t, []string{"juan@example.com"}, api.emails)
	assert.Empty(t, l.Items())
}

func TestLoad_NoEmailSkipsNetwork(t *testing.T) {
	api := &fakeAPI{}
	l := reservation.New(api, fakeIdentity{}, &fakeAlerts{}, nil)
	err := l.Load(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrNoEmail)
	assert.ErrorIs(t, l.Err(), domain.ErrNoEmail)
	assert.Empty(t, api.emails)
}

func TestLoad_ErrorState(t *testing.T) {
	api := &fakeAPI{listErr: &domain.NetworkError{Err: errors.New("connection refused")}}
	l := reservation.New(api, nil, &fakeAlerts{}, nil)
	err := l.Load(context.Background(), "a@b.c")
	var netErr *domain.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Error(t, l.Err())
	assert.False(t, l.Loading())
}

func TestRefresh_SetsRefreshingFlag(t *testing.T) {
	api := &fakeAPI{records: sample()}
	l := reservation.New(api, nil, &fakeAlerts{}, nil)
	require.NoError(t, l.Load(context.Background(), "a@b.c"))

	var during, loadingDuring bool
	api.listHook = func() {
		during = l.Refreshing()
		loadingDuring = l.Loading()
	}
	require.NoError(t, l.Refresh(context.Background()))
	assert.True(t, during)
	assert.False(t, loadingDuring)
	assert.False(t, l.Refreshing())
	assert.Equal(t, []string{"a@b.c", "a@b.c"}, api.emails)
}

func TestRefresh_BeforeLoad(t *testing.T) {
	l := reservation.New(&fakeAPI{}, nil, &fakeAlerts{}, nil)
	assert.ErrorIs(t, l.Refresh(context.Background()), domain.ErrNoEmail)
}

func TestDelete_RemovesOnlyMatchingID(t *testing.T) {
	api := &fakeAPI{records: sample(), delResp: &domain.Response{Status: "success"}}
	alerts := &fakeAlerts{}
	l := reservation.New(api, nil, alerts, nil)
	require.NoError(t, l.Load(context.Background(), "a@b.c"))

	require.NoError(t, l.Delete(context.Background(), "7", "pamisa_data"))
	assert.Equal(t, []deleteCall{{"7", "a@b.c", "pamisa_data"}}, api.deletes)

	var ids []string
	for _, it := range l.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"a1", "c3"}, ids)
	require.Len(t, alerts.alerts, 1)
	assert.Equal(t, domain.AlertSuccess, alerts.alerts[0].Kind)
}

func TestDelete_FailureKeepsList(t *testing.T) {
	tests := []struct {
		name string
		resp *domain.Response
		err  error
		msg  string
	}{
		{"rejected", &domain.Response{Status: "error", Message: "Not found"}, nil, "Not found"},
		{"network", nil, &domain.NetworkError{Err: errors.New("timeout")}, "Failed to delete reservation. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{records: sample(), delResp: tt.resp, delErr: tt.err}
			alerts := &fakeAlerts{}
			l := reservation.New(api, nil, alerts, nil)
			require.NoError(t, l.Load(context.Background(), "a@b.c"))

			assert.Error(t, l.Delete(context.Background(), "a1", "baptism_data"))
			assert.Len(t, l.Items(), 3)
			require.Len(t, alerts.alerts, 1)
			assert.Equal(t, domain.AlertError, alerts.alerts[0].Kind)
			assert.Equal(t, tt.msg, alerts.alerts[0].Message)
		})
	}
}
