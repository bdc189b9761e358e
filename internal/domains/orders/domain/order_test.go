package domain

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("In Progress")
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, status)

	_, err = ParseStatus("Shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("pending")
	require.ErrorIs(t, err, ErrInvalidStatus, "status matching is case sensitive")
}

func TestParsePaymentStatus(t *testing.T) {
	status, err := ParsePaymentStatus("Partial")
	require.NoError(t, err)
	require.Equal(t, PaymentPartial, status)

	_, err = ParsePaymentStatus("Refunded")
	require.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestParseServiceMode_EmptyDefaultsToRegular(t *testing.T) {
	mode, err := ParseServiceMode("")
	require.NoError(t, err)
	require.Equal(t, ModeRegular, mode)

	mode, err = ParseServiceMode("Express")
	require.NoError(t, err)
	require.Equal(t, ModeExpress, mode)

	_, err = ParseServiceMode("Overnight")
	require.ErrorIs(t, err, ErrInvalidServiceMode)
}

func TestCustomerValidate(t *testing.T) {
	require.NoError(t, Customer{Name: "Maria Santos"}.Validate())
	require.NoError(t, Customer{UserID: 7}.Validate(), "registered user needs no snapshot")

	require.ErrorIs(t, Customer{}.Validate(), ErrMissingCustomer)
	require.ErrorIs(t, Customer{Name: "M"}.Validate(), ErrInvalidCustomerName)
	require.ErrorIs(t, Customer{Name: strings.Repeat("x", 256)}.Validate(), ErrInvalidCustomerName)
	require.ErrorIs(t, Customer{Name: "Maria", Email: "not-an-email"}.Validate(), ErrInvalidCustomerEmail)
	require.ErrorIs(t, Customer{Name: "Maria", Email: "a b@example.com"}.Validate(), ErrInvalidCustomerEmail)
}

func TestNewOrder_Defaults(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	quote, err := PriceOrder([]Selection{{Service: "Blanket", Quantity: 2}}, ModeRegular, DefaultCatalog(), now)
	require.NoError(t, err)

	order, err := NewOrder(Customer{Name: "  Maria Santos ", Email: "Maria@Example.com"}, quote, "  gentle cycle  ", now)
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, PaymentUnpaid, order.PaymentStatus)
	require.Equal(t, PaymentMethodPickup, order.PaymentMethod)
	require.Equal(t, "Maria Santos", order.Customer.Name)
	require.Equal(t, "maria@example.com", order.Customer.Email)
	require.Equal(t, "gentle cycle", order.Notes)
	require.Equal(t, quote.Total, order.TotalCost)
	require.True(t, order.StatusUpdatedAt.IsZero())
}

func TestNewOrder_RejectsInvalidCustomer(t *testing.T) {
	now := time.Now()
	quote, err := PriceOrder([]Selection{{Service: "Blanket", Quantity: 1}}, ModeRegular, DefaultCatalog(), now)
	require.NoError(t, err)

	_, err = NewOrder(Customer{}, quote, "", now)
	require.ErrorIs(t, err, ErrMissingCustomer)
}

func TestNotifiableEmail(t *testing.T) {
	order := &Order{Customer: Customer{Email: "maria@example.com"}}
	require.Equal(t, "maria@example.com", order.NotifiableEmail())

	order.Customer.Email = "bogus"
	require.Empty(t, order.NotifiableEmail())

	order.Customer.Email = ""
	require.Empty(t, order.NotifiableEmail())
}

func TestSanitizeNotes(t *testing.T) {
	require.Equal(t, "alert(1)", SanitizeNotes("<script>alert(1)</script>"))
	require.Equal(t, "plain", SanitizeNotes("  plain  "))
	require.Len(t, SanitizeNotes(strings.Repeat("a", MaxNotesLength+50)), MaxNotesLength)
	require.Empty(t, SanitizeNotes("<br/>"))
}

func TestSanitizeNotesCapKeepsValidUTF8(t *testing.T) {
	// A multi-byte rune straddling the byte cap must be dropped whole, not
	// split into a dangling continuation byte.
	notes := strings.Repeat("a", MaxNotesLength-1) + "ñ"
	require.Len(t, notes, MaxNotesLength+1)

	got := SanitizeNotes(notes)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("a", MaxNotesLength-1), got)

	// A rune ending exactly at the cap survives intact.
	exact := strings.Repeat("a", MaxNotesLength-2) + "ñ"
	require.Equal(t, exact, SanitizeNotes(exact+"overflow"))
}

func TestLineItemTotal(t *testing.T) {
	item := LineItem{Service: "Regular Clothes", UnitPrice: 60, Quantity: 2.345}
	require.Equal(t, 140.7, item.Total())
}
