package form

import (
	"regexp"
	"strings"
	"time"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
)

// Validate runs the schema's required-field check, then every field pattern.
func (c *Controller) Validate() error {
	if err := c.ValidateRequired(c.schema.RequiredFields()...); err != nil {
		return err
	}
	for _, f := range c.schema.Fields {
		re, ok := c.patterns[f.Name]
		if !ok {
			continue
		}
		msg := f.PatternMessage
		if msg == "" {
			msg = f.Label + " is not in the expected format."
		}
		if err := c.ValidateFormat(re, msg, f.Name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRequired fails on the first named field that is empty or
// whitespace-only. A field marked not applicable counts as filled.
func (c *Controller) ValidateRequired(names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		f, _ := c.schema.Field(name)
		if !c.valueLocked(f).Filled() {
			return &domain.ValidationError{Field: name, Label: f.Label, Message: incompleteMessage}
		}
	}
	return nil
}

// ValidateFormat fails with message when a provided value of any named field
// does not match pattern. Blank and not-applicable values are left to
// ValidateRequired, including numeric input stripped down to nothing.
func (c *Controller) ValidateFormat(pattern *regexp.Regexp, message string, names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		f, _ := c.schema.Field(name)
		v := c.valueLocked(f)
		if v.State() != domain.Provided || !v.Filled() {
			continue
		}
		if !pattern.MatchString(v.Text()) {
			return &domain.ValidationError{Field: name, Label: f.Label, Message: message}
		}
	}
	return nil
}

var unpadded = strings.NewReplacer("01", "1", "02", "2", "03", "3")

// parseTime accepts the field's layout with or without zero padding.
func parseTime(f catalog.Field, s string) (time.Time, error) {
	layout := f.Layout()
	t, err := time.Parse(layout, s)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.Parse(unpadded.Replace(layout), s); err2 == nil {
		return t, nil
	}
	return time.Time{}, err
}
