// Package handlers is a development stand-in for the parish Remote API. It
// serves every form endpoint, login, and the reservation list/delete script
// from a RecordStore, answering with the same JSON envelope as production.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
	"github.com/csg33k/parish-services/internal/reservation"
	"github.com/csg33k/parish-services/internal/templates"
)

// maxBody bounds request bodies; forms are a few hundred bytes.
const maxBody = 1 << 20

type Handler struct {
	store ports.RecordStore
	log   *zap.Logger
}

func New(store ports.RecordStore, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, log: log}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(h.log))

	for _, s := range catalog.All() {
		r.Post(s.Path, h.submit(s))
	}
	r.Post(catalog.LoginPath, h.login)
	r.Get(catalog.ReservationsPath, h.listReservations)
	r.Post(catalog.ReservationsPath, h.deleteReservation)

	// Browsable view of what has been filed under an email.
	r.Get("/records", h.recordsPage)
	return r
}

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (h *Handler) submit(s *catalog.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := readJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		email := strings.TrimSpace(str(payload["email"]))
		if email == "" {
			writeError(w, http.StatusBadRequest, "Email is required.")
			return
		}
		for _, name := range s.RequiredFields() {
			if strings.TrimSpace(str(payload[name])) == "" {
				f, _ := s.Field(name)
				writeError(w, http.StatusBadRequest, "Missing required field: "+f.Label+".")
				return
			}
		}
		if s.RequiresLogin {
			if _, err := h.store.FindUserByEmail(r.Context(), email); err != nil {
				writeError(w, http.StatusUnauthorized, "Please log in before requesting a certificate.")
				return
			}
		}

		rec := &domain.Record{
			Collection: s.Collection,
			Email:      email,
			Date:       str(payload[s.DateField]),
			Time:       str(payload[s.TimeField]),
			Data:       payload,
		}
		delete(rec.Data, "email")
		if err := h.store.CreateRecord(r.Context(), rec); err != nil {
			h.log.Error("create record", zap.String("form", string(s.Type)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Could not save your request.")
			return
		}
		h.log.Info("record filed",
			zap.String("form", string(s.Type)),
			zap.String("id", rec.ID),
			zap.String("email", email),
		)
		writeJSON(w, http.StatusOK, envelope{
			Status:  "success",
			Details: map[string]string{"id": rec.ID, "collection": rec.Collection},
		})
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}
	u, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password))
	}
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			h.log.Error("login", zap.Error(err))
		}
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Login successful.",
		"user":    u.Profile,
	})
}

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required.")
		return
	}
	recs, err := h.store.ListRecords(r.Context(), email)
	if err != nil {
		h.log.Error("list records", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not load reservations.")
		return
	}
	data := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		data = append(data, flatten(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func (h *Handler) deleteReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReservationID  string `json:"reservationId"`
		UserEmail      string `json:"userEmail"`
		CollectionName string `json:"collectionName"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.ReservationID == "" || req.UserEmail == "" || req.CollectionName == "" {
		writeError(w, http.StatusBadRequest, "reservationId, userEmail and collectionName are required.")
		return
	}
	ok, err := h.store.DeleteRecord(r.Context(), req.ReservationID, req.UserEmail, req.CollectionName)
	if err != nil {
		h.log.Error("delete record", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not delete reservation.")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Reservation not found.")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Message: "Reservation deleted successfully."})
}

func (h *Handler) recordsPage(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}
	recs, err := h.store.ListRecords(r.Context(), email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	items := make([]domain.Reservation, 0, len(recs))
	for _, rec := range recs {
		items = append(items, reservation.Normalize(flatten(rec)))
	}
	render(w, r, templates.Reservations(email, items))
}

// flatten turns a stored record back into the flat object the app lists.
func flatten(rec domain.Record) map[string]any {
	out := make(map[string]any, len(rec.Data)+6)
	for k, v := range rec.Data {
		out[k] = v
	}
	out["id"] = rec.ID
	out["type"] = rec.Collection
	out["status"] = string(rec.Status)
	out["email"] = rec.Email
	if rec.Date != "" {
		out["date"] = rec.Date
	}
	if rec.Time != "" {
		out["time"] = rec.Time
	}
	return out
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Status: "error", Message: msg})
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
