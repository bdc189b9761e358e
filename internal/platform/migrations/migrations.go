package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&notificationRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

type lineItem struct {
	Service   string  `json:"service"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              int64          `gorm:"primaryKey;column:id"`
	UserID          *int64         `gorm:"column:user_id;index"`
	CustomerName    string         `gorm:"column:customer_name;size:255"`
	CustomerEmail   string         `gorm:"column:customer_email;size:254"`
	CustomerPhone   string         `gorm:"column:customer_phone;size:32"`
	ServiceNames    pq.StringArray `gorm:"column:service_names;type:text[]"`
	Items           []lineItem     `gorm:"column:items;serializer:json"`
	Summary         string         `gorm:"column:summary;type:text"`
	ServiceMode     string         `gorm:"column:service_mode;type:varchar(16)"`
	PaymentMethod   string         `gorm:"column:payment_method;size:32"`
	PaymentStatus   string         `gorm:"column:payment_status;type:varchar(16);index"`
	TotalCost       float64        `gorm:"column:total_cost"`
	Status          string         `gorm:"column:status;type:varchar(16);index"`
	Notes           string         `gorm:"column:notes;type:text"`
	DueDate         time.Time      `gorm:"column:due_date"`
	CreatedAt       time.Time      `gorm:"column:created_at;index"`
	StatusUpdatedAt *time.Time     `gorm:"column:status_updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Notification schema mirrors the notifications Postgres adapter. A NULL
// recipient marks a broadcast row visible to every admin.
type notificationRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	RecipientID *int64    `gorm:"column:recipient_id;index"`
	Type        string    `gorm:"column:type;type:varchar(16)"`
	Title       string    `gorm:"column:title;size:255"`
	Message     string    `gorm:"column:message;type:text"`
	Link        string    `gorm:"column:link;size:255"`
	IsRead      bool      `gorm:"column:is_read;index"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (notificationRecord) TableName() string { return "notifications" }

// User schema mirrors the auth Postgres adapter.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;size:255"`
	Email     string    `gorm:"column:email;size:254;index"`
	Role      string    `gorm:"column:role;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
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
