package form_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/form"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type submitCall struct {
	form    domain.FormType
	payload map[string]any
}

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []submitCall
	resp  *domain.Response
	err   error
	// gate, when set, blocks Submit until it is closed.
	gate chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, t domain.FormType, payload map[string]any) (*domain.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, submitCall{form: t, payload: payload})
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.resp, f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeAlerts struct {
	alerts  []domain.Alert
	answer  bool
	prompts int
}

func (f *fakeAlerts) Alert(a domain.Alert) { f.alerts = append(f.alerts, a) }

func (f *fakeAlerts) Confirm(title, message string) bool {
	f.prompts++
	return f.answer
}

type fakeNav struct {
	backs  int
	routes []string
}

func (f *fakeNav) Back()                 { f.backs++ }
func (f *fakeNav) Navigate(route string) { f.routes = append(f.routes, route) }

type fakeIdentity struct{ email string }

func (f fakeIdentity) Email() string  { return f.email }
func (f fakeIdentity) LoggedIn() bool { return f.email != "" }

// manualAnimator holds the completion callback until finish is called.
type manualAnimator struct {
	pending []func()
	fades   []time.Duration
}

func (m *manualAnimator) Fade(_, _ float64, d time.Duration, done func()) {
	m.fades = append(m.fades, d)
	m.pending = append(m.pending, done)
}

func (m *manualAnimator) finish() {
	for _, fn := range m.pending {
		fn()
	}
	m.pending = nil
}

type harness struct {
	ctl    *form.Controller
	sub    *fakeSubmitter
	alerts *fakeAlerts
	nav    *fakeNav
}

func newHarness(t *testing.T, ft domain.FormType, id fakeIdentity) *harness {
	t.Helper()
	schema, ok := catalog.ForType(ft)
	require.True(t, ok)
	h := &harness{
		sub:    &fakeSubmitter{resp: &domain.Response{Status: "success", Message: "ok"}},
		alerts: &fakeAlerts{},
		nav:    &fakeNav{},
	}
	ctl, err := form.New(form.Config{
		Schema:    schema,
		Submitter: h.sub,
		Identity:  id,
		Alerts:    h.alerts,
		Navigator: h.nav,
	})
	require.NoError(t, err)
	t.Cleanup(ctl.Close)
	h.ctl = ctl
	return h
}

func fillPamisa(t *testing.T, c *form.Controller) {
	t.Helper()
	require.NoError(t, c.SetField("date", "12/25/2025"))
	require.NoError(t, c.SetField("time", "8AM"))
	require.NoError(t, c.SetField("intention", "Pasasalamat"))
	require.NoError(t, c.SetField("name", "Juan Dela Cruz"))
	require.NoError(t, c.SetField("offeredBy", "Maria Dela Cruz"))
	require.NoError(t, c.SetField("donation", "500"))
}

func fillSickCall(t *testing.T, c *form.Controller) {
	t.Helper()
	for k, v := range map[string]string{
		"patient_name":   "Lola Basyang",
		"age":            "82",
		"address":        "Purok 3, Poblacion",
		"condition":      "Bedridden",
		"contact_person": "Pedro Basyang",
		"contact_number": "09171234567",
		"preferred_date": "03-14",
		"preferred_time": "09:30 AM",
	} {
		require.NoError(t, c.SetField(k, v))
	}
}

// ---------------------------------------------------------------------------
// Field entry
// ---------------------------------------------------------------------------

func TestSetField_NumericKeepsDigitsOnly(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	tests := []struct{ in, want string }{
		{"12a3", "123"},
		{"abc", ""},
		{"0917-123-4567", "09171234567"},
		{"  42 ", "42"},
	}
	for _, tt := range tests {
		require.NoError(t, h.ctl.SetField("contact_number", tt.in))
		assert.Equal(t, tt.want, h.ctl.Value("contact_number").String(), "input %q", tt.in)
	}
}

func TestSetField_TextStoredVerbatim(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	require.NoError(t, h.ctl.SetField("address", "  Purok 3 #12 "))
	assert.Equal(t, "  Purok 3 #12 ", h.ctl.Value("address").Text())
}

func TestSetField_UnknownField(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	err := h.ctl.SetField("shoe_size", "9")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestSetFieldNotApplicable(t *testing.T) {
	h := newHarness(t, domain.Baptismal, fakeIdentity{})

	require.NoError(t, h.ctl.SetField("sponsor1_age", "35"))
	require.NoError(t, h.ctl.SetFieldNotApplicable("sponsor1_age"))
	v := h.ctl.Value("sponsor1_age")
	assert.Equal(t, domain.NotApplicable, v.State())
	assert.Equal(t, "N/A", v.String())
	assert.NoError(t, h.ctl.ValidateRequired("sponsor1_age"))

	// A typed "N/A" is still user input.
	require.NoError(t, h.ctl.SetField("sponsor1_address", "N/A"))
	assert.Equal(t, domain.Provided, h.ctl.Value("sponsor1_address").State())
	assert.Equal(t, "N/A", h.ctl.Value("sponsor1_address").String())
}

func TestSetFieldNotApplicable_DateField(t *testing.T) {
	h := newHarness(t, domain.BaptismalCertificate, fakeIdentity{email: "a@b.c"})
	require.NoError(t, h.ctl.SetField("baptism_date", "2001-06-15"))
	require.NoError(t, h.ctl.SetFieldNotApplicable("baptism_date"))
	assert.Equal(t, "N/A", h.ctl.Values()["baptism_date"])
}

func TestDateAndTimeFields(t *testing.T) {
	h := newHarness(t, domain.Baptismal, fakeIdentity{})

	require.NoError(t, h.ctl.SetField("birth_date", "1/5/2025"))
	assert.Equal(t, "01/05/2025", h.ctl.Value("birth_date").String())

	require.NoError(t, h.ctl.OpenPicker("preferred_date"))
	assert.Equal(t, "preferred_date", h.ctl.PickerOpenFor())
	require.NoError(t, h.ctl.SetTime("preferred_date", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2026-02-01", h.ctl.Value("preferred_date").String())
	assert.Equal(t, "", h.ctl.PickerOpenFor())

	require.NoError(t, h.ctl.SetField("preferred_time", "2:30 PM"))
	assert.Equal(t, "02:30 PM", h.ctl.Value("preferred_time").String())

	var vErr *domain.ValidationError
	err := h.ctl.SetField("birth_date", "2025-01-05")
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Message, "MM/DD/YYYY")

	assert.Error(t, h.ctl.OpenPicker("child_name"))
}

// ---------------------------------------------------------------------------
// Validation and preview
// ---------------------------------------------------------------------------

func TestBlankRequiredFieldsBlockPreviewAndSubmit(t *testing.T) {
	for _, blank := range []string{"", "   ", "\t"} {
		h := newHarness(t, domain.Pamisa, fakeIdentity{})
		fillPamisa(t, h.ctl)
		require.NoError(t, h.ctl.SetField("intention", blank))

		err := h.ctl.OpenPreview()
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr), "blank %q", blank)
		assert.Equal(t, "intention", vErr.Field)
		assert.False(t, h.ctl.Previewing())

		err = h.ctl.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, 0, h.sub.count())

		require.Len(t, h.alerts.alerts, 2)
		assert.Equal(t, "Incomplete Form", h.alerts.alerts[0].Title)
	}
}

func TestOptionalFieldsMayStayEmpty(t *testing.T) {
	h := newHarness(t, domain.Baptismal, fakeIdentity{})
	for k, v := range map[string]string{
		"child_name":     "Baby Santos",
		"birth_date":     "01/15/2025",
		"birth_place":    "Cebu City",
		"father_name":    "Jose Santos",
		"mother_name":    "Ana Reyes",
		"address":        "Lahug, Cebu City",
		"contact_number": "09181112222",
		"preferred_date": "2025-03-01",
		"preferred_time": "10:00 AM",
		"sponsor1_name":  "Tito Boy",
	} {
		require.NoError(t, h.ctl.SetField(k, v))
	}
	require.NoError(t, h.ctl.SetFieldNotApplicable("sponsor1_age"))
	require.NoError(t, h.ctl.SetFieldNotApplicable("sponsor1_address"))

	require.NoError(t, h.ctl.OpenPreview())
	assert.True(t, h.ctl.Previewing())
}

func TestFuneralYearMustBeFourDigits(t *testing.T) {
	h := newHarness(t, domain.Funeral, fakeIdentity{})
	for k, v := range map[string]string{
		"deceased_name":  "Ramon Cruz",
		"age":            "78",
		"birth_year":     "19a4",
		"death_year":     "2025",
		"date_of_death":  "10/01/2025",
		"cause_of_death": "Old age",
		"cemetery":       "Municipal Cemetery",
		"contact_person": "Liza Cruz",
		"relationship":   "Daughter",
		"contact_number": "09170000000",
		"mass_date":      "2025-10-05",
		"mass_time":      "4:00 PM",
	} {
		require.NoError(t, h.ctl.SetField(k, v))
	}
	assert.Equal(t, "194", h.ctl.Value("birth_year").String())

	err := h.ctl.OpenPreview()
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "birth_year", vErr.Field)
	require.Len(t, h.alerts.alerts, 1)
	assert.Equal(t, "Invalid Input", h.alerts.alerts[0].Title)
	assert.Contains(t, h.alerts.alerts[0].Message, "4 digits")

	require.NoError(t, h.ctl.SetField("birth_year", "1947"))
	assert.NoError(t, h.ctl.OpenPreview())
}

func TestValidateFormat_SkipsNotApplicable(t *testing.T) {
	h := newHarness(t, domain.Funeral, fakeIdentity{})
	require.NoError(t, h.ctl.SetFieldNotApplicable("birth_year"))
	re := regexp.MustCompile(`^\d{4}$`)
	assert.NoError(t, h.ctl.ValidateFormat(re, "bad", "birth_year"))
	require.NoError(t, h.ctl.SetField("birth_year", "12"))
	assert.Error(t, h.ctl.ValidateFormat(re, "bad", "birth_year"))
}

func TestValidateFormat_SkipsBlankNumericInput(t *testing.T) {
	h := newHarness(t, domain.Funeral, fakeIdentity{})
	require.NoError(t, h.ctl.SetField("birth_year", "abc"))
	assert.Equal(t, "", h.ctl.Value("birth_year").String())

	re := regexp.MustCompile(`^\d{4}$`)
	assert.NoError(t, h.ctl.ValidateFormat(re, "bad", "birth_year"))

	err := h.ctl.ValidateRequired("birth_year")
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "birth_year", vErr.Field)
}

func TestClosePreview_FlipsStateAfterFade(t *testing.T) {
	schema, _ := catalog.ForType(domain.Pamisa)
	anim := &manualAnimator{}
	ctl, err := form.New(form.Config{
		Schema:    schema,
		Submitter: &fakeSubmitter{},
		Alerts:    &fakeAlerts{},
		Navigator: &fakeNav{},
		Animator:  anim,
	})
	require.NoError(t, err)
	defer ctl.Close()
	fillPamisa(t, ctl)

	require.NoError(t, ctl.OpenPreview())
	assert.True(t, ctl.Previewing())
	anim.finish()

	ctl.ClosePreview()
	assert.True(t, ctl.Previewing(), "preview must stay visible until the fade completes")
	anim.finish()
	assert.False(t, ctl.Previewing())
	assert.Equal(t, []time.Duration{form.FadeIn, form.FadeOut}, anim.fades)
}

func TestPreviewRows(t *testing.T) {
	h := newHarness(t, domain.Pamisa, fakeIdentity{email: "maria@example.com"})
	fillPamisa(t, h.ctl)
	p := h.ctl.Preview()
	assert.Equal(t, "maria@example.com", p.Email)
	require.Len(t, p.Rows, 6)
	assert.Equal(t, domain.PreviewRow{Label: "Date", Value: "12/25/2025"}, p.Rows[0])
}

// ---------------------------------------------------------------------------
// Submission outcomes
// ---------------------------------------------------------------------------

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	fillSickCall(t, h.ctl)

	require.NoError(t, h.ctl.Submit(context.Background()))
	assert.Equal(t, 1, h.sub.count())
	require.Len(t, h.alerts.alerts, 1)
	assert.Equal(t, domain.AlertSuccess, h.alerts.alerts[0].Kind)
	assert.Equal(t, "ok", h.alerts.alerts[0].Message)
	assert.Equal(t, 1, h.nav.backs)
	assert.Empty(t, h.nav.routes)
}

func TestSubmit_StampsGuestEmail(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	fillSickCall(t, h.ctl)
	require.NoError(t, h.ctl.Submit(context.Background()))
	assert.Equal(t, domain.GuestEmail, h.sub.calls[0].payload["email"])
	assert.Equal(t, "03-14", h.sub.calls[0].payload["preferred_date"])
}

func TestSubmit_StampsLoggedInEmail(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{email: "pedro@example.com"})
	fillSickCall(t, h.ctl)
	require.NoError(t, h.ctl.Submit(context.Background()))
	assert.Equal(t, "pedro@example.com", h.sub.calls[0].payload["email"])
}

func TestSubmit_FailureClasses(t *testing.T) {
	longBody := "<html>" + strings.Repeat("x", 300)
	tests := []struct {
		name      string
		resp      *domain.Response
		err       error
		wantTitle string
		wantMsg   string
	}{
		{
			name:      "network",
			err:       &domain.NetworkError{Err: errors.New("dial tcp 192.168.1.10:80: connect: no route to host")},
			wantTitle: "Network Error",
			wantMsg:   "no route to host",
		},
		{
			name:      "empty body",
			err:       domain.ErrEmptyResponse,
			wantTitle: "Server Error",
			wantMsg:   "empty response",
		},
		{
			name:      "malformed body",
			err:       &domain.MalformedResponseError{Excerpt: longBody, Err: errors.New("invalid character '<'")},
			wantTitle: "Server Error",
			wantMsg:   longBody[:100],
		},
		{
			name:      "rejected with message",
			resp:      &domain.Response{Status: "error", Message: "X"},
			wantTitle: "Submission Failed",
			wantMsg:   "X",
		},
		{
			name:      "rejected without message",
			resp:      &domain.Response{Status: "fail"},
			wantTitle: "Submission Failed",
			wantMsg:   "Please try again",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, domain.SickCall, fakeIdentity{})
			fillSickCall(t, h.ctl)
			before := h.ctl.Values()
			h.sub.resp, h.sub.err = tt.resp, tt.err

			require.Error(t, h.ctl.Submit(context.Background()))
			require.Len(t, h.alerts.alerts, 1)
			a := h.alerts.alerts[0]
			assert.Equal(t, tt.wantTitle, a.Title)
			assert.Contains(t, a.Message, tt.wantMsg)
			assert.NotContains(t, a.Message, longBody[:101])
			assert.Equal(t, before, h.ctl.Values(), "fields must be untouched")
			assert.Equal(t, 0, h.nav.backs)
			assert.Equal(t, 1, h.sub.count())
		})
	}
}

func TestSubmit_RejectedAllowsResubmit(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	fillSickCall(t, h.ctl)
	h.sub.resp = &domain.Response{Status: "error", Message: "Slot taken"}

	err := h.ctl.Submit(context.Background())
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Slot taken", apiErr.Message)

	h.sub.resp = &domain.Response{Status: "success"}
	require.NoError(t, h.ctl.Submit(context.Background()))
	assert.Equal(t, 2, h.sub.count())
	assert.Equal(t, "Your sick call request has been submitted.", h.alerts.alerts[1].Message)
}

func TestSubmit_ResetOnSuccess(t *testing.T) {
	h := newHarness(t, domain.Pamisa, fakeIdentity{})
	fillPamisa(t, h.ctl)
	require.NoError(t, h.ctl.Submit(context.Background()))
	assert.Equal(t, domain.Empty, h.ctl.Value("intention").State())
	assert.Equal(t, domain.Empty, h.ctl.Value("date").State())
	assert.Equal(t, []string{catalog.DashboardRoute}, h.nav.routes)
	assert.Equal(t, 0, h.nav.backs)
}

func TestSubmit_CertificateRequiresLogin(t *testing.T) {
	h := newHarness(t, domain.DeathCertificate, fakeIdentity{})
	for k, v := range map[string]string{
		"deceased_name": "Ramon Cruz",
		"date_of_death": "2025-10-01",
		"relationship":  "Son",
		"purpose":       "Insurance claim",
		"copies":        "2",
	} {
		require.NoError(t, h.ctl.SetField(k, v))
	}

	assert.ErrorIs(t, h.ctl.OpenPreview(), domain.ErrLoginRequired)
	assert.ErrorIs(t, h.ctl.Submit(context.Background()), domain.ErrLoginRequired)
	assert.Equal(t, 0, h.sub.count())
	require.Len(t, h.alerts.alerts, 2)
	assert.Equal(t, "Login Required", h.alerts.alerts[0].Title)
}

func TestSubmit_AfterCloseIsSilent(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	fillSickCall(t, h.ctl)
	h.sub.gate = make(chan struct{})

	errc := make(chan error, 1)
	go func() { errc <- h.ctl.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return h.sub.count() == 1 }, time.Second, time.Millisecond)
	h.ctl.Close()
	close(h.sub.gate)

	assert.ErrorIs(t, <-errc, domain.ErrClosed)
	assert.Empty(t, h.alerts.alerts)
	assert.Equal(t, 0, h.nav.backs)
}

// ---------------------------------------------------------------------------
// Cancel
// ---------------------------------------------------------------------------

func TestCancel(t *testing.T) {
	h := newHarness(t, domain.SickCall, fakeIdentity{})
	fillSickCall(t, h.ctl)

	h.alerts.answer = false
	assert.False(t, h.ctl.Cancel())
	assert.Equal(t, "Bedridden", h.ctl.Value("condition").String())
	assert.Equal(t, 0, h.nav.backs)

	h.alerts.answer = true
	assert.True(t, h.ctl.Cancel())
	assert.Equal(t, domain.Empty, h.ctl.Value("condition").State())
	assert.Equal(t, 1, h.nav.backs)
	assert.Equal(t, 2, h.alerts.prompts)
	assert.Equal(t, 0, h.sub.count())
}

func TestNew_RequiresCollaborators(t *testing.T) {
	schema, _ := catalog.ForType(domain.Pamisa)
	_, err := form.New(form.Config{Schema: schema})
	assert.Error(t, err)
	_, err = form.New(form.Config{Submitter: &fakeSubmitter{}, Alerts: &fakeAlerts{}, Navigator: &fakeNav{}})
	assert.Error(t, err)
}
