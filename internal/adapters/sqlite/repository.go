package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

type Repository struct {
	db *sql.DB
}

// New opens the SQLite database at dsn and creates the tables if needed.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if dsn == MemoryDSN {
		db.SetMaxOpenConns(1)
	}
	r := &Repository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return r, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) migrate() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		email TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		date TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		profile_picture TEXT NOT NULL DEFAULT '',
		contact_number TEXT NOT NULL DEFAULT '',
		complete_address TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_email ON records(email COLLATE NOCASE);
	`)
	return err
}

// ── Records ──────────────────────────────────────────────────────────────────

func (r *Repository) CreateRecord(ctx context.Context, rec *domain.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = domain.StatusPending
	}
	rec.CreatedAt = time.Now().UTC()
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("encode record data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (id, collection, email, status, date, time, data, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Collection, rec.Email, string(rec.Status),
		rec.Date, rec.Time, string(data), rec.CreatedAt,
	)
	return err
}

// ListRecords returns every record of email, oldest first. Emails compare
// case-insensitively.
func (r *Repository) ListRecords(ctx context.Context, email string) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, collection, email, status, date, time, data, created_at
		FROM records WHERE email = ? COLLATE NOCASE
		ORDER BY created_at, rowid`, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			rec    domain.Record
			status string
			data   string
		)
		if err := rows.Scan(&rec.ID, &rec.Collection, &rec.Email, &status,
			&rec.Date, &rec.Time, &data, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Status = domain.Status(status)
		if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteRecord removes a record only when id, owner and collection all match.
// It reports whether a row was removed.
func (r *Repository) DeleteRecord(ctx context.Context, id, email, collection string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM records WHERE id = ? AND email = ? COLLATE NOCASE AND collection = ?`,
		id, strings.TrimSpace(email), collection)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── Users ────────────────────────────────────────────────────────────────────

func (r *Repository) CreateUser(ctx context.Context, u *domain.StoredUser) error {
	u.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, profile_picture, contact_number, complete_address, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		u.Email, u.PasswordHash,
		u.Profile.Name, u.Profile.ProfilePicture, u.Profile.ContactNumber, u.Profile.CompleteAddress,
		u.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	u.ID = id
	u.Profile.Email = u.Email
	return nil
}

// FindUserByEmail returns domain.ErrNotFound when no account matches.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*domain.StoredUser, error) {
	u := &domain.StoredUser{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, profile_picture, contact_number, complete_address, created_at
		FROM users WHERE email = ?`, strings.TrimSpace(email)).Scan(
		&u.ID, &u.Email, &u.PasswordHash,
		&u.Profile.Name, &u.Profile.ProfilePicture, &u.Profile.ContactNumber, &u.Profile.CompleteAddress,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Profile.Email = u.Email
	return u, nil
}

var _ ports.RecordStore = (*Repository)(nil)
