// Package storage persists conversation artifacts as append-only CSV rows.
// Writes are best-effort: a failed write is logged by the caller and never
// blocks the conversational reply.
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sambhav874/WingHeights/internal/config"
)

const timestampLayout = "2006-01-02 15:04:05"

// AppointmentRecord is an immutable, fully populated appointment at
// submission time. Written once, never updated or deleted.
type AppointmentRecord struct {
	Name          string `json:"name" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required"`
	Email         string `json:"email" validate:"required"`
	Date          string `json:"date" validate:"required"`
	Time          string `json:"time" validate:"required"`
	InsuranceType string `json:"insuranceType" validate:"required"`
}

// Sink is the durable record collaborator the router writes through.
type Sink interface {
	AppendAppointment(rec AppointmentRecord) error
	AppendUserContact(name, contact, email string) error
	AppendInteraction(sessionID, name, event string) error
	AppendChatMessage(sessionID, role, text string, at time.Time) error
}

// CSVStore appends rows to flat CSV files under a configured directory.
// No header rows are written or assumed.
type CSVStore struct {
	mu sync.Mutex

	appointmentsPath string
	usersPath        string
	interactionsPath string
	chatHistoryPath  string
}

func NewCSVStore(cfg config.StorageConfig) (*CSVStore, error) {
	if cfg.Dir != "" && cfg.Dir != "." {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir: %w", err)
		}
	}

	return &CSVStore{
		appointmentsPath: filepath.Join(cfg.Dir, cfg.AppointmentsFile),
		usersPath:        filepath.Join(cfg.Dir, cfg.UsersFile),
		interactionsPath: filepath.Join(cfg.Dir, cfg.InteractionsFile),
		chatHistoryPath:  filepath.Join(cfg.Dir, cfg.ChatHistoryFile),
	}, nil
}

func (s *CSVStore) AppendAppointment(rec AppointmentRecord) error {
	return s.appendRow(s.appointmentsPath, []string{
		rec.Name,
		rec.ContactNumber,
		rec.Email,
		rec.Date,
		rec.Time,
		rec.InsuranceType,
	})
}

func (s *CSVStore) AppendUserContact(name, contact, email string) error {
	return s.appendRow(s.usersPath, []string{name, contact, email})
}

func (s *CSVStore) AppendInteraction(sessionID, name, event string) error {
	return s.appendRow(s.interactionsPath, []string{sessionID, name, event})
}

func (s *CSVStore) AppendChatMessage(sessionID, role, text string, at time.Time) error {
	return s.appendRow(s.chatHistoryPath, []string{
		sessionID,
		role,
		text,
		at.Format(timestampLayout),
	})
}

func (s *CSVStore) appendRow(path string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", path, err)
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
