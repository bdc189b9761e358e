package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	store := &SessionStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&sessionRecord{})
	}
	return store
}

type sessionRecord struct {
	ID              string    `gorm:"primaryKey;column:id;size:64"`
	UserID          int64     `gorm:"column:user_id;index"`
	Name            string    `gorm:"column:name"`
	Role            string    `gorm:"column:role;type:varchar(16)"`
	CsrfToken       string    `gorm:"column:csrf_token;size:128"`
	FingerprintHash string    `gorm:"column:fingerprint_hash;size:64"`
	ClientIP        string    `gorm:"column:client_ip;size:64"`
	LastActivity    time.Time `gorm:"column:last_activity;index"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "sessions" }

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record sessionRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts the session keyed by its identifier.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}
	record := toRecord(session)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"csrf_token", "last_activity"}),
		}).
		Create(&record).Error
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error
}

// PurgeExpired removes sessions inactive beyond the timeout. Used by the
// session-purger housekeeping job.
func (s *SessionStore) PurgeExpired(ctx context.Context, timeout time.Duration) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	cutoff := time.Now().Add(-timeout)
	return s.db.WithContext(ctx).Where("last_activity < ?", cutoff).Delete(&sessionRecord{}).Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

func toRecord(session *domain.Session) sessionRecord {
	return sessionRecord{
		ID:              session.ID,
		UserID:          session.UserID,
		Name:            session.Name,
		Role:            string(session.Role),
		CsrfToken:       session.CsrfToken,
		FingerprintHash: session.FingerprintHash,
		ClientIP:        session.ClientIP,
		LastActivity:    session.LastActivity,
		CreatedAt:       session.CreatedAt,
	}
}

func (r sessionRecord) toDomain() *domain.Session {
	return &domain.Session{
		ID:              r.ID,
		UserID:          r.UserID,
		Name:            r.Name,
		Role:            domain.Role(r.Role),
		CsrfToken:       r.CsrfToken,
		FingerprintHash: r.FingerprintHash,
		ClientIP:        r.ClientIP,
		LastActivity:    r.LastActivity,
		CreatedAt:       r.CreatedAt,
	}
}
