// Package catalog defines the field schema of every parish service form:
// which fields exist, which are required or digit-only, how dates and times
// are encoded, and where the form is submitted.
package catalog

import (
	"strings"

	"github.com/csg33k/parish-services/internal/domain"
)

// DashboardRoute is where forms that do not simply go back land after success.
const DashboardRoute = "Dashboard"

// Remote API paths shared by every form.
const (
	LoginPath        = "/system/login.php"
	ReservationsPath = "/system/get_reservations.php" // GET lists, POST deletes
)

type FieldKind int

const (
	Text    FieldKind = iota
	Numeric           // digits only; other keystrokes are dropped
	Date              // held as time.Time, encoded with Format
	Time              // held as time.Time, encoded with Format
)

type Encoding int

const (
	AsString Encoding = iota
	AsNumber          // emitted as a JSON number when the digits parse
)

type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	// Format uses the app's notation: YYYY, MM, DD, hh, h, mm, A.
	Format string
	// Pattern, when set, must match any provided value.
	Pattern        string
	PatternMessage string
	Encoding       Encoding
}

// Layout converts Format to a Go time layout.
func (f Field) Layout() string {
	return formatTokens.Replace(f.Format)
}

var formatTokens = strings.NewReplacer(
	"YYYY", "2006",
	"MM", "01",
	"DD", "02",
	"hh", "03",
	"h", "3",
	"mm", "04",
	"A", "PM",
)

type Schema struct {
	Type       domain.FormType
	Title      string
	Path       string // e.g. "/system/pamisa_submit.php"
	Collection string // reservation type tag the server files it under

	RequiresLogin bool
	// RequireAll makes every field required regardless of Field.Required.
	RequireAll bool
	Fields     []Field

	// DateField and TimeField name the fields that schedule the reservation.
	DateField string
	TimeField string

	SuccessMessage string
	// SuccessNote is appended to every success alert.
	SuccessNote    string
	ResetOnSuccess bool
	// SuccessRoute is navigated to after success; empty means go back.
	SuccessRoute string
}

func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredFields returns the field names the required check covers, in form order.
func (s *Schema) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if s.RequireAll || f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// FieldNames returns every field name in form order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// ForType returns the schema of a form type.
func ForType(t domain.FormType) (*Schema, bool) {
	s, ok := byType[t]
	return s, ok
}

// All returns every schema in menu order.
func All() []*Schema {
	out := make([]*Schema, len(ordered))
	copy(out, ordered)
	return out
}

var serviceNames = map[string]string{
	"baptism_data":         "Baptism",
	"confirmation_data":    "Confirmation",
	"communion_data":       "First Communion",
	"funeral_data":         "Funeral Mass",
	"pamisa_data":          "Mass Intention",
	"sickcall_data":        "Sick Call",
	"certificate_requests": "Certificate Request",
}

// ServiceName maps a reservation type tag to its display name.
func ServiceName(tag string) string {
	if name, ok := serviceNames[tag]; ok {
		return name
	}
	return "Unknown Service"
}

var ordered = []*Schema{
	baptismal(),
	confirmation(),
	firstCommunion(),
	funeral(),
	pamisa(),
	sickCall(),
	certificate(domain.BaptismalCertificate, "Baptismal Certificate", "request_baptismal_certificate.php", []Field{
		{Name: "full_name", Label: "Full Name"},
		{Name: "father_name", Label: "Father's Name"},
		{Name: "mother_name", Label: "Mother's Name"},
		{Name: "baptism_date", Label: "Date of Baptism", Kind: Date, Format: "YYYY-MM-DD"},
	}),
	certificate(domain.ConfirmationCertificate, "Confirmation Certificate", "request_confirmation_certificate.php", []Field{
		{Name: "full_name", Label: "Full Name"},
		{Name: "confirmation_date", Label: "Date of Confirmation", Kind: Date, Format: "YYYY-MM-DD"},
		{Name: "sponsor_name", Label: "Sponsor's Name"},
	}),
	certificate(domain.MarriageCertificate, "Marriage Certificate", "request_marriage_certificate.php", []Field{
		{Name: "husband_name", Label: "Husband's Name"},
		{Name: "wife_name", Label: "Wife's Name"},
		{Name: "marriage_date", Label: "Date of Marriage", Kind: Date, Format: "YYYY-MM-DD"},
	}),
	certificate(domain.DeathCertificate, "Death Certificate", "request_death_certificate.php", []Field{
		{Name: "deceased_name", Label: "Name of Deceased"},
		{Name: "date_of_death", Label: "Date of Death", Kind: Date, Format: "YYYY-MM-DD"},
		{Name: "relationship", Label: "Relationship to Deceased"},
	}),
}

var byType = func() map[domain.FormType]*Schema {
	m := make(map[domain.FormType]*Schema, len(ordered))
	for _, s := range ordered {
		m[s.Type] = s
	}
	return m
}()
