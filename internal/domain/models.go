package domain

import "encoding/json"

// GuestEmail stamps submissions made while nobody is logged in.
const GuestEmail = "guest@example.com"

// FormType identifies one sacrament or service request form.
type FormType string

const (
	Baptismal               FormType = "baptismal"
	Confirmation            FormType = "confirmation"
	FirstCommunion          FormType = "first_communion"
	Funeral                 FormType = "funeral"
	Pamisa                  FormType = "pamisa"
	SickCall                FormType = "sick_call"
	BaptismalCertificate    FormType = "baptismal_certificate"
	ConfirmationCertificate FormType = "confirmation_certificate"
	MarriageCertificate     FormType = "marriage_certificate"
	DeathCertificate        FormType = "death_certificate"
)

// LoggedInUser is the identity returned by a successful login.
type LoggedInUser struct {
	Email           string `json:"email"`
	Name            string `json:"name,omitempty"`
	ProfilePicture  string `json:"profilePicture,omitempty"`
	ContactNumber   string `json:"contactNumber,omitempty"`
	CompleteAddress string `json:"completeAddress,omitempty"`
}

// Status is the lifecycle state of a reservation on the parish side.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusCompleted Status = "Completed"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

// Reservation is the normalized view of a previously submitted record.
type Reservation struct {
	ID      string
	Type    string // collection tag, e.g. "baptism_data"
	Service string // display name, e.g. "Baptism"
	Status  Status
	Date    string
	Time    string
	Email   string
	Details map[string]any
}

// Response is the envelope every Remote API endpoint answers with.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// OK reports whether the server accepted the request.
func (r *Response) OK() bool { return r != nil && r.Status == "success" }

// PreviewRow is one label/value line of a form preview.
type PreviewRow struct {
	Label string
	Value string
}

// Preview is the read-only rendering of a form before submission.
type Preview struct {
	Title string
	Email string
	Rows  []PreviewRow
}

// AlertKind selects how a front end presents an Alert.
type AlertKind int

const (
	AlertInfo AlertKind = iota
	AlertSuccess
	AlertError
)

// Alert is a blocking, acknowledge-only message shown to the user.
type Alert struct {
	Kind    AlertKind
	Title   string
	Message string
}
