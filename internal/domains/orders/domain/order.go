package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Status enumerates order fulfillment progression. Archived is an
// administrative side branch reachable from any state; archived orders are
// hidden from active views but retained.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusReady      Status = "Ready"
	StatusPickup     Status = "Pickup"
	StatusArchived   Status = "Archived"
)

// PaymentStatus is an independent axis from Status.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentPaid    PaymentStatus = "Paid"
)

// ServiceMode fixes the turnaround time and the express surcharge.
type ServiceMode string

const (
	ModeRegular ServiceMode = "Regular"
	ModeExpress ServiceMode = "Express"
)

// PaymentMethodPickup is the only payment method recorded at creation;
// payment is collected on pickup and recorded, never processed.
const PaymentMethodPickup = "Pay on Pickup"

const (
	MaxCustomerNameLength = 255
	MaxEmailLength        = 254
	MaxNotesLength        = 1000
)

var (
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrInvalidPaymentStatus = errors.New("payment status is invalid")
	ErrInvalidServiceMode   = errors.New("service mode is invalid")
	ErrInvalidCustomerName  = errors.New("customer name must be between 2 and 255 characters")
	ErrInvalidCustomerEmail = errors.New("customer email is invalid")
	ErrMissingCustomer      = errors.New("order requires a registered user or customer details")
)

// ParseStatus validates a client-supplied status value against the closed set.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.TrimSpace(raw)); s {
	case StatusPending, StatusInProgress, StatusReady, StatusPickup, StatusArchived:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// ParsePaymentStatus validates a client-supplied payment status value.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch s := PaymentStatus(strings.TrimSpace(raw)); s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, raw)
	}
}

// ParseServiceMode validates a client-supplied mode; empty defaults to Regular.
func ParseServiceMode(raw string) (ServiceMode, error) {
	switch m := ServiceMode(strings.TrimSpace(raw)); m {
	case ModeRegular, ModeExpress:
		return m, nil
	case "":
		return ModeRegular, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidServiceMode, raw)
	}
}

// TurnaroundDays returns the due-date offset fixed by the mode.
func (m ServiceMode) TurnaroundDays() int {
	if m == ModeExpress {
		return 1
	}
	return 3
}

// Surcharge returns the flat express fee, applied once per order.
func (m ServiceMode) Surcharge() float64 {
	if m == ModeExpress {
		return ExpressSurcharge
	}
	return 0
}

// Customer identifies who the order belongs to: a registered user (UserID > 0),
// an inline walk-in snapshot, or both.
type Customer struct {
	UserID int64
	Name   string
	Email  string
	Phone  string
}

// Registered reports whether the order is owned by a registered user account.
func (c Customer) Registered() bool { return c.UserID > 0 }

// Validate enforces the at-least-one-identity invariant and snapshot field bounds.
func (c Customer) Validate() error {
	name := strings.TrimSpace(c.Name)
	if !c.Registered() && name == "" {
		return ErrMissingCustomer
	}
	if name != "" && (len(name) < 2 || len(name) > MaxCustomerNameLength) {
		return ErrInvalidCustomerName
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		if len(email) > MaxEmailLength || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
			return ErrInvalidCustomerEmail
		}
	}
	return nil
}

// LineItem is one priced service selection. Items are write-once after creation.
type LineItem struct {
	Service   string
	Unit      string
	UnitPrice float64
	Quantity  float64
}

// Total returns the per-item total rounded to cents.
func (li LineItem) Total() float64 {
	return round2(li.UnitPrice * li.Quantity)
}

// Order is the unit of laundry work for one customer. TotalCost, DueDate and
// Items are computed at creation and never mutated afterwards; only Status and
// PaymentStatus change post-creation, through the repository transition
// operations.
type Order struct {
	ID              int64
	Customer        Customer
	Items           []LineItem
	Summary         string
	Mode            ServiceMode
	PaymentMethod   string
	TotalCost       float64
	Status          Status
	PaymentStatus   PaymentStatus
	Notes           string
	DueDate         time.Time
	CreatedAt       time.Time
	StatusUpdatedAt time.Time
}

// NewOrder assembles a Pending, Unpaid order from a validated price quote.
func NewOrder(customer Customer, quote *Quote, notes string, now time.Time) (*Order, error) {
	if quote == nil {
		return nil, errors.New("quote is nil")
	}
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	customer.Phone = strings.TrimSpace(customer.Phone)
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return &Order{
		Customer:      customer,
		Items:         quote.Items,
		Summary:       quote.Summary,
		Mode:          quote.Mode,
		PaymentMethod: PaymentMethodPickup,
		TotalCost:     quote.Total,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		Notes:         SanitizeNotes(notes),
		DueDate:       quote.DueDate,
		CreatedAt:     now,
	}, nil
}

// NotifiableEmail returns the customer email usable for confirmation mail,
// or "" when the order carries no deliverable address.
func (o *Order) NotifiableEmail() string {
	email := strings.TrimSpace(o.Customer.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	return email
}

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeNotes strips markup, trims, and caps free-text notes. The cap is
// applied at a rune boundary so truncation never stores invalid UTF-8.
func SanitizeNotes(notes string) string {
	notes = markupPattern.ReplaceAllString(notes, "")
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		cut := MaxNotesLength
		for cut > 0 && !utf8.RuneStart(notes[cut]) {
			cut--
		}
		notes = notes[:cut]
	}
	return notes
}
