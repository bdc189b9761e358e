package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Status and payment
// transitions are single-column updates inside a transaction that locks the
// row, so the returned prior value is the one actually replaced.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

type lineItemRecord struct {
	Service   string  `json:"service"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
}

type orderRecord struct {
	ID              int64            `gorm:"primaryKey;column:id"`
	UserID          *int64           `gorm:"column:user_id;index"`
	CustomerName    string           `gorm:"column:customer_name;size:255"`
	CustomerEmail   string           `gorm:"column:customer_email;size:254"`
	CustomerPhone   string           `gorm:"column:customer_phone;size:32"`
	ServiceNames    pq.StringArray   `gorm:"column:service_names;type:text[]"`
	Items           []lineItemRecord `gorm:"column:items;serializer:json"`
	Summary         string           `gorm:"column:summary;type:text"`
	ServiceMode     string           `gorm:"column:service_mode;type:varchar(16)"`
	PaymentMethod   string           `gorm:"column:payment_method;size:32"`
	PaymentStatus   string           `gorm:"column:payment_status;type:varchar(16);index"`
	TotalCost       float64          `gorm:"column:total_cost"`
	Status          string           `gorm:"column:status;type:varchar(16);index"`
	Notes           string           `gorm:"column:notes;type:text"`
	DueDate         time.Time        `gorm:"column:due_date"`
	CreatedAt       time.Time        `gorm:"column:created_at;index"`
	StatusUpdatedAt *time.Time       `gorm:"column:status_updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order and returns it with the assigned identifier.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListActive returns non-archived orders, newest first.
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("status <> ?", string(domain.StatusArchived)).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus applies the transition under a row lock and records the real
// transition timestamp when the value actually changes.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*ports.StatusTransition, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var transition *ports.StatusTransition
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		old := domain.Status(record.Status)
		updates := map[string]any{"status": string(status)}
		if old != status {
			updates["status_updated_at"] = time.Now()
		}
		if err := tx.Model(&orderRecord{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		record.Status = string(status)
		transition = &ports.StatusTransition{Order: record.toDomain(), Old: old, New: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transition, nil
}

// UpdatePayment applies the payment transition under a row lock.
func (r *Repository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus) (*ports.PaymentTransition, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var transition *ports.PaymentTransition
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		old := domain.PaymentStatus(record.PaymentStatus)
		if err := tx.Model(&orderRecord{}).Where("id = ?", id).
			Update("payment_status", string(status)).Error; err != nil {
			return err
		}
		record.PaymentStatus = string(status)
		transition = &ports.PaymentTransition{Order: record.toDomain(), Old: old, New: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transition, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:            order.ID,
		CustomerName:  order.Customer.Name,
		CustomerEmail: order.Customer.Email,
		CustomerPhone: order.Customer.Phone,
		Summary:       order.Summary,
		ServiceMode:   string(order.Mode),
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: string(order.PaymentStatus),
		TotalCost:     order.TotalCost,
		Status:        string(order.Status),
		Notes:         order.Notes,
		DueDate:       order.DueDate,
		CreatedAt:     order.CreatedAt,
	}
	if order.Customer.UserID > 0 {
		userID := order.Customer.UserID
		record.UserID = &userID
	}
	for _, item := range order.Items {
		record.ServiceNames = append(record.ServiceNames, item.Service)
		record.Items = append(record.Items, lineItemRecord{
			Service:   item.Service,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	if !order.StatusUpdatedAt.IsZero() {
		ts := order.StatusUpdatedAt
		record.StatusUpdatedAt = &ts
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID: r.ID,
		Customer: domain.Customer{
			Name:  r.CustomerName,
			Email: r.CustomerEmail,
			Phone: r.CustomerPhone,
		},
		Summary:       r.Summary,
		Mode:          domain.ServiceMode(r.ServiceMode),
		PaymentMethod: r.PaymentMethod,
		PaymentStatus: domain.PaymentStatus(r.PaymentStatus),
		TotalCost:     r.TotalCost,
		Status:        domain.Status(r.Status),
		Notes:         r.Notes,
		DueDate:       r.DueDate,
		CreatedAt:     r.CreatedAt,
	}
	if r.UserID != nil {
		order.Customer.UserID = *r.UserID
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			Service:   item.Service,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	if r.StatusUpdatedAt != nil {
		order.StatusUpdatedAt = *r.StatusUpdatedAt
	}
	return order
}
