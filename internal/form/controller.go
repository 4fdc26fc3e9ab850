// Package form implements the workflow shared by every parish service form:
// field entry, required-field validation, preview, and submission to the
// Remote API. One Controller serves one open form screen; its behaviour is
// driven entirely by a catalog.Schema.
package form

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
)

const (
	FadeIn  = 300 * time.Millisecond
	FadeOut = 200 * time.Millisecond
)

const (
	incompleteTitle   = "Incomplete Form"
	incompleteMessage = "Please fill in all required fields."
	defaultSuccess    = "Your request has been submitted successfully."
	defaultFailure    = "Something went wrong while submitting your request. Please try again."
	emptyBodyMessage  = "The server returned an empty response. Please try again later."
	excerptLen        = 100
)

// Config wires a Controller. Schema, Submitter, Alerts and Navigator are required.
type Config struct {
	Schema    *catalog.Schema
	Submitter ports.FormSubmitter
	Identity  ports.Identity
	Alerts    ports.Alerter
	Navigator ports.Navigator
	Animator  ports.Animator
	Logger    *zap.Logger
}

type Controller struct {
	schema    *catalog.Schema
	submitter ports.FormSubmitter
	identity  ports.Identity
	alerts    ports.Alerter
	nav       ports.Navigator
	anim      ports.Animator
	log       *zap.Logger
	patterns  map[string]*regexp.Regexp

	mu         sync.Mutex
	values     map[string]domain.Value
	times      map[string]time.Time
	previewing bool
	pickerFor  string

	// life ends when the screen closes; responses arriving later are dropped.
	life context.Context
	stop context.CancelFunc
}

func New(cfg Config) (*Controller, error) {
	switch {
	case cfg.Schema == nil:
		return nil, errors.New("form: schema is required")
	case cfg.Submitter == nil:
		return nil, errors.New("form: submitter is required")
	case cfg.Alerts == nil:
		return nil, errors.New("form: alerter is required")
	case cfg.Navigator == nil:
		return nil, errors.New("form: navigator is required")
	}
	c := &Controller{
		schema:    cfg.Schema,
		submitter: cfg.Submitter,
		identity:  cfg.Identity,
		alerts:    cfg.Alerts,
		nav:       cfg.Navigator,
		anim:      cfg.Animator,
		log:       cfg.Logger,
		patterns:  map[string]*regexp.Regexp{},
		values:    map[string]domain.Value{},
		times:     map[string]time.Time{},
	}
	if c.anim == nil {
		c.anim = Immediate{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.With(zap.String("form", string(cfg.Schema.Type)))
	for _, f := range cfg.Schema.Fields {
		if f.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("form: field %s pattern: %w", f.Name, err)
		}
		c.patterns[f.Name] = re
	}
	c.life, c.stop = context.WithCancel(context.Background())
	return c, nil
}

func (c *Controller) Schema() *catalog.Schema { return c.schema }

// Close ends the controller's lifetime. In-flight submissions complete
// silently and return domain.ErrClosed.
func (c *Controller) Close() { c.stop() }

// ── Field state ──────────────────────────────────────────────────────────────

// SetField stores user input. Numeric fields keep only their digits; date and
// time fields are parsed with the field's format.
func (c *Controller) SetField(name, value string) error {
	f, err := c.field(name)
	if err != nil {
		return err
	}
	switch f.Kind {
	case catalog.Numeric:
		c.set(name, domain.Provide(stripNonDigits(value)))
	case catalog.Date, catalog.Time:
		if strings.TrimSpace(value) == "" {
			c.clear(name)
			return nil
		}
		t, err := parseTime(f, strings.TrimSpace(value))
		if err != nil {
			return &domain.ValidationError{
				Field:   name,
				Label:   f.Label,
				Message: "Use the format " + f.Format + ".",
			}
		}
		c.setTime(name, t)
	default:
		c.set(name, domain.Provide(value))
	}
	return nil
}

// SetTime stores a picked date or time and closes the picker.
func (c *Controller) SetTime(name string, t time.Time) error {
	f, err := c.field(name)
	if err != nil {
		return err
	}
	if f.Kind != catalog.Date && f.Kind != catalog.Time {
		return fmt.Errorf("%s is not a date or time field", name)
	}
	c.setTime(name, t)
	c.mu.Lock()
	c.pickerFor = ""
	c.mu.Unlock()
	return nil
}

// SetFieldNotApplicable marks a field as intentionally skipped.
func (c *Controller) SetFieldNotApplicable(name string) error {
	if _, err := c.field(name); err != nil {
		return err
	}
	c.set(name, domain.NA())
	return nil
}

func (c *Controller) OpenPicker(name string) error {
	f, err := c.field(name)
	if err != nil {
		return err
	}
	if f.Kind != catalog.Date && f.Kind != catalog.Time {
		return fmt.Errorf("%s is not a date or time field", name)
	}
	c.mu.Lock()
	c.pickerFor = name
	c.mu.Unlock()
	return nil
}

func (c *Controller) ClosePicker() {
	c.mu.Lock()
	c.pickerFor = ""
	c.mu.Unlock()
}

func (c *Controller) PickerOpenFor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pickerFor
}

// Value returns a field's current value, with dates and times encoded in the
// field's format.
func (c *Controller) Value(name string) domain.Value {
	f, _ := c.schema.Field(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valueLocked(f)
}

// Values returns the wire encoding of every field.
func (c *Controller) Values() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.schema.Fields))
	for _, f := range c.schema.Fields {
		out[f.Name] = c.valueLocked(f).String()
	}
	return out
}

func (c *Controller) valueLocked(f catalog.Field) domain.Value {
	if t, ok := c.times[f.Name]; ok {
		return domain.Provide(t.Format(f.Layout()))
	}
	return c.values[f.Name]
}

func (c *Controller) set(name string, v domain.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.times, name)
	c.values[name] = v
}

func (c *Controller) setTime(name string, t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, name)
	c.times[name] = t
}

func (c *Controller) clear(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, name)
	delete(c.times, name)
}

func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = map[string]domain.Value{}
	c.times = map[string]time.Time{}
	c.previewing = false
	c.pickerFor = ""
}

func (c *Controller) field(name string) (catalog.Field, error) {
	f, ok := c.schema.Field(name)
	if !ok {
		return catalog.Field{}, fmt.Errorf("%w: %s", domain.ErrUnknownField, name)
	}
	return f, nil
}

// ── Preview ──────────────────────────────────────────────────────────────────

func (c *Controller) Previewing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewing
}

// OpenPreview validates the form and, if valid, shows the preview.
func (c *Controller) OpenPreview() error {
	if err := c.checkLogin(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		c.alertInvalid(err)
		return err
	}
	c.mu.Lock()
	c.previewing = true
	c.mu.Unlock()
	c.anim.Fade(0, 1, FadeIn, func() {})
	return nil
}

// ClosePreview fades the preview out and hides it once the fade completes.
func (c *Controller) ClosePreview() {
	c.anim.Fade(1, 0, FadeOut, func() {
		c.mu.Lock()
		c.previewing = false
		c.mu.Unlock()
	})
}

// Preview returns the label/value rows shown before submission.
func (c *Controller) Preview() domain.Preview {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := domain.Preview{Title: c.schema.Title, Email: c.email()}
	for _, f := range c.schema.Fields {
		p.Rows = append(p.Rows, domain.PreviewRow{Label: f.Label, Value: c.valueLocked(f).String()})
	}
	return p
}

// ── Submission ───────────────────────────────────────────────────────────────

// Payload returns the JSON object that Submit would post.
func (c *Controller) Payload() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.schema.Fields)+1)
	for _, f := range c.schema.Fields {
		v := c.valueLocked(f)
		out[f.Name] = v.String()
		if f.Encoding == catalog.AsNumber && v.State() == domain.Provided {
			if n, err := strconv.ParseInt(v.Text(), 10, 64); err == nil {
				out[f.Name] = n
			}
		}
	}
	out["email"] = c.email()
	return out
}

// Submit validates and posts the form once. Every failure is reported to the
// user and returned; none is retried.
func (c *Controller) Submit(ctx context.Context) error {
	if err := c.checkLogin(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		c.alertInvalid(err)
		return err
	}
	payload := c.Payload()

	ctx, done := c.requestContext(ctx)
	defer done()

	c.log.Info("submitting form", zap.Any("email", payload["email"]))
	resp, err := c.submitter.Submit(ctx, c.schema.Type, payload)
	if c.life.Err() != nil {
		c.log.Debug("form closed before response; dropping result")
		return domain.ErrClosed
	}
	if err != nil {
		c.log.Warn("submission failed", zap.Error(err))
		c.alertFailure(err)
		return err
	}
	if len(resp.Details) > 0 {
		c.log.Debug("server details", zap.ByteString("details", resp.Details))
	}
	if !resp.OK() {
		c.log.Info("submission rejected", zap.String("status", resp.Status), zap.String("message", resp.Message))
		msg := resp.Message
		if msg == "" {
			msg = defaultFailure
		}
		c.alerts.Alert(domain.Alert{Kind: domain.AlertError, Title: "Submission Failed", Message: msg})
		return &domain.APIError{Status: resp.Status, Message: resp.Message}
	}

	c.log.Info("submission accepted")
	c.alerts.Alert(domain.Alert{Kind: domain.AlertSuccess, Title: "Success", Message: c.successMessage(resp)})
	if c.schema.ResetOnSuccess {
		c.reset()
	}
	if c.schema.SuccessRoute == "" {
		c.nav.Back()
	} else {
		c.nav.Navigate(c.schema.SuccessRoute)
	}
	return nil
}

// Cancel asks for confirmation and, on yes, discards the form and goes back.
func (c *Controller) Cancel() bool {
	if !c.alerts.Confirm("Cancel", "Are you sure you want to cancel? Your entries will be discarded.") {
		return false
	}
	c.reset()
	c.nav.Back()
	return true
}

func (c *Controller) successMessage(resp *domain.Response) string {
	msg := resp.Message
	if msg == "" {
		msg = c.schema.SuccessMessage
	}
	if msg == "" {
		msg = defaultSuccess
	}
	if c.schema.SuccessNote != "" {
		msg += "\n\n" + c.schema.SuccessNote
	}
	return msg
}

// requestContext ties a request to both the caller and the controller lifetime.
func (c *Controller) requestContext(ctx context.Context) (context.Context, func()) {
	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.life, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) email() string {
	if c.identity != nil {
		if e := c.identity.Email(); e != "" {
			return e
		}
	}
	return domain.GuestEmail
}

func (c *Controller) checkLogin() error {
	if !c.schema.RequiresLogin {
		return nil
	}
	if c.identity != nil && c.identity.LoggedIn() {
		return nil
	}
	c.alerts.Alert(domain.Alert{
		Kind:    domain.AlertError,
		Title:   "Login Required",
		Message: "Please log in before submitting a " + c.schema.Title + ".",
	})
	return domain.ErrLoginRequired
}

func (c *Controller) alertInvalid(err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) && vErr.Message != incompleteMessage {
		c.alerts.Alert(domain.Alert{Kind: domain.AlertError, Title: "Invalid Input", Message: vErr.Message})
		return
	}
	c.alerts.Alert(domain.Alert{Kind: domain.AlertError, Title: incompleteTitle, Message: incompleteMessage})
}

func (c *Controller) alertFailure(err error) {
	var (
		netErr       *domain.NetworkError
		malformedErr *domain.MalformedResponseError
	)
	a := domain.Alert{Kind: domain.AlertError, Title: "Server Error"}
	switch {
	case errors.As(err, &netErr):
		a.Title = "Network Error"
		a.Message = netErr.Error()
	case errors.Is(err, domain.ErrEmptyResponse):
		a.Message = emptyBodyMessage
	case errors.As(err, &malformedErr):
		a.Message = "The server returned an invalid response: " + truncate(malformedErr.Excerpt, excerptLen)
	default:
		a.Title = "Network Error"
		a.Message = err.Error()
	}
	c.alerts.Alert(a)
}

// Immediate completes every fade at once.
type Immediate struct{}

func (Immediate) Fade(_, _ float64, _ time.Duration, done func()) { done() }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
