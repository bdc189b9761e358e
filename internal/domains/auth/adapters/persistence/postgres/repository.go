package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository reads users from PostgreSQL. Password management is an
// external concern; Upsert only syncs directory-managed profiles so they
// participate in admin fan-out.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	repo := &UserRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&userRecord{})
	}
	return repo
}

type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;size:255"`
	Email     string    `gorm:"column:email;size:254;index"`
	Role      string    `gorm:"column:role;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string { return "users" }

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrUserNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).Where("role = ?", string(domain.RoleAdmin)).Find(&records).Error; err != nil {
		return nil, err
	}
	admins := make([]*domain.User, 0, len(records))
	for i := range records {
		admins = append(admins, records[i].toDomain())
	}
	return admins, nil
}

// Upsert inserts or refreshes a user row keyed by its directory-assigned ID.
// Boot-time seeding uses it so the configured admin shows up in ListAdmins.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if user == nil || user.ID == 0 {
		return errors.New("user with an assigned id required")
	}
	record := userRecord{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role"}),
	}).Create(&record).Error
}

func (r *UserRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Role:  domain.Role(r.Role),
	}
}
