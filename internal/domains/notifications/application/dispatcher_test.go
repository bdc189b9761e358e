package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authdomain "github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/adapters/memory"
	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/domain"
	ordersdomain "github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
)

type fakeUserRepo struct {
	admins  []*authdomain.User
	listErr error
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*authdomain.User, error) {
	for _, u := range f.admins {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepo) ListAdmins(_ context.Context) ([]*authdomain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.admins, nil
}

type recordedMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []recordedMail
	failTo map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failTo: map[string]error{}}
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.sent = append(f.sent, recordedMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (f *fakeMailer) sentTo(to string) []recordedMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedMail
	for _, m := range f.sent {
		if m.to == to {
			out = append(out, m)
		}
	}
	return out
}

func mustAdmin(t *testing.T, id int64, name, email string) *authdomain.User {
	t.Helper()
	u, err := authdomain.NewUser(id, name, email, authdomain.RoleAdmin)
	require.NoError(t, err)
	return u
}

func testOrder() *ordersdomain.Order {
	return &ordersdomain.Order{
		ID:            42,
		Customer:      ordersdomain.Customer{UserID: 7, Name: "Maria Santos", Email: "maria@example.com"},
		Summary:       "Regular Clothes (5 kg)",
		Mode:          ordersdomain.ModeRegular,
		PaymentMethod: ordersdomain.PaymentMethodPickup,
		TotalCost:     300,
		Status:        ordersdomain.StatusPending,
		PaymentStatus: ordersdomain.PaymentUnpaid,
		DueDate:       time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func createdEvent(order *ordersdomain.Order) ordersdomain.OrderCreated {
	return ordersdomain.OrderCreated{
		BaseEvent: ordersdomain.BaseEvent{Timestamp: order.CreatedAt},
		Order:     order,
	}
}

func TestDispatch_OrderCreated_FansOutToEveryAdmin(t *testing.T) {
	repo := memory.NewRepository()
	mailer := newFakeMailer()
	users := &fakeUserRepo{admins: []*authdomain.User{
		mustAdmin(t, 1, "Ana", "ana@example.com"),
		mustAdmin(t, 2, "Ben", "ben@example.com"),
		mustAdmin(t, 3, "Cruz", "cruz@example.com"),
	}}
	dispatcher := NewDispatcher(repo, mailer, users, nil)

	result := dispatcher.Dispatch(context.Background(), createdEvent(testOrder()))
	require.Empty(t, result.Warnings)
	require.Equal(t, 3, result.NotificationsCreated)
	// Three admin emails plus the customer confirmation.
	require.Equal(t, 4, result.EmailsSent)

	for _, admin := range users.admins {
		list, err := repo.ListForRecipient(context.Background(), domain.Recipient{UserID: admin.ID, Admin: true})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, domain.TypeOrder, list[0].Type)
		require.Equal(t, "New Order Received", list[0].Title)
		require.Contains(t, list[0].Message, "Order #42")
		require.Contains(t, list[0].Message, "₱300.00")
	}

	confirmation := mailer.sentTo("maria@example.com")
	require.Len(t, confirmation, 1)
	require.Equal(t, "New Laundry Order #42", confirmation[0].subject)
	require.Contains(t, confirmation[0].body, "Regular Clothes (5 kg)")
	require.Contains(t, confirmation[0].body, "March 13, 2024")
}

func TestDispatch_OrderCreated_OneFailingAdminDoesNotBlockOthers(t *testing.T) {
	repo := memory.NewRepository()
	mailer := newFakeMailer()
	mailer.failTo["ben@example.com"] = errors.New("connection refused")
	users := &fakeUserRepo{admins: []*authdomain.User{
		mustAdmin(t, 1, "Ana", "ana@example.com"),
		mustAdmin(t, 2, "Ben", "ben@example.com"),
	}}
	dispatcher := NewDispatcher(repo, mailer, users, nil)

	result := dispatcher.Dispatch(context.Background(), createdEvent(testOrder()))
	require.Equal(t, 2, result.NotificationsCreated, "in-app writes are independent of mail failures")
	require.Equal(t, 2, result.EmailsSent, "one admin email plus the customer confirmation")
	require.Contains(t, result.Warnings, "email to admin 2 failed")

	require.Len(t, mailer.sentTo("ana@example.com"), 1)
}

func TestDispatch_OrderCreated_MailerDownDegradesToWarnings(t *testing.T) {
	repo := memory.NewRepository()
	mailer := newFakeMailer()
	down := errors.New("smtp unreachable")
	mailer.failTo["ana@example.com"] = down
	mailer.failTo["maria@example.com"] = down
	users := &fakeUserRepo{admins: []*authdomain.User{mustAdmin(t, 1, "Ana", "ana@example.com")}}
	dispatcher := NewDispatcher(repo, mailer, users, nil)

	result := dispatcher.Dispatch(context.Background(), createdEvent(testOrder()))
	require.Equal(t, 1, result.NotificationsCreated)
	require.Zero(t, result.EmailsSent)
	require.Contains(t, result.Warnings, "email to admin 1 failed")
	require.Contains(t, result.Warnings, "confirmation email could not be delivered")
}

func TestDispatch_OrderCreated_AdminListingFailureIsSoft(t *testing.T) {
	repo := memory.NewRepository()
	mailer := newFakeMailer()
	users := &fakeUserRepo{listErr: errors.New("users table offline")}
	dispatcher := NewDispatcher(repo, mailer, users, nil)

	result := dispatcher.Dispatch(context.Background(), createdEvent(testOrder()))
	require.Zero(t, result.NotificationsCreated)
	require.Len(t, result.Warnings, 1)
	// The customer confirmation still goes out.
	require.Len(t, mailer.sentTo("maria@example.com"), 1)
}

func TestDispatch_OrderCreated_WalkInWithoutEmailSkipsConfirmation(t *testing.T) {
	repo := memory.NewRepository()
	mailer := newFakeMailer()
	users := &fakeUserRepo{admins: []*authdomain.User{mustAdmin(t, 1, "Ana", "ana@example.com")}}
	dispatcher := NewDispatcher(repo, mailer, users, nil)

	order := testOrder()
	order.Customer = ordersdomain.Customer{Name: "Walk-in"}
	result := dispatcher.Dispatch(context.Background(), createdEvent(order))
	require.Empty(t, result.Warnings)
	require.Equal(t, 1, result.EmailsSent, "only the admin email")
}

func TestDispatch_StatusChanged_NotifiesOwnerInAppOnly(t *testing.T) {
	repo := memory.NewRepository()
	mailer := newFakeMailer()
	dispatcher := NewDispatcher(repo, mailer, &fakeUserRepo{}, nil)

	order := testOrder()
	result := dispatcher.Dispatch(context.Background(), ordersdomain.StatusChanged{
		BaseEvent: ordersdomain.BaseEvent{Timestamp: time.Now()},
		Order:     order,
		From:      ordersdomain.StatusPending,
		To:        ordersdomain.StatusReady,
	})
	require.Equal(t, 1, result.NotificationsCreated)
	require.Zero(t, result.EmailsSent)
	require.Empty(t, mailer.sent)

	list, err := repo.ListForRecipient(context.Background(), domain.Recipient{UserID: order.Customer.UserID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, fmt.Sprintf("Order #%d Status Updated", order.ID), list[0].Title)
	require.Equal(t, "Your order status has been changed to: Ready", list[0].Message)
}

func TestDispatch_StatusChanged_WalkInOrderIsSilent(t *testing.T) {
	repo := memory.NewRepository()
	dispatcher := NewDispatcher(repo, newFakeMailer(), &fakeUserRepo{}, nil)

	order := testOrder()
	order.Customer = ordersdomain.Customer{Name: "Walk-in"}
	result := dispatcher.Dispatch(context.Background(), ordersdomain.StatusChanged{
		Order: order,
		From:  ordersdomain.StatusPending,
		To:    ordersdomain.StatusReady,
	})
	require.Zero(t, result.NotificationsCreated)
	require.Empty(t, result.Warnings)
}

func TestDispatch_PaymentReceived_NotifiesOwnerWithAmount(t *testing.T) {
	repo := memory.NewRepository()
	dispatcher := NewDispatcher(repo, newFakeMailer(), &fakeUserRepo{}, nil)

	order := testOrder()
	result := dispatcher.Dispatch(context.Background(), ordersdomain.PaymentReceived{
		BaseEvent: ordersdomain.BaseEvent{Timestamp: time.Now()},
		Order:     order,
		Amount:    1234.5,
	})
	require.Equal(t, 1, result.NotificationsCreated)

	list, err := repo.ListForRecipient(context.Background(), domain.Recipient{UserID: order.Customer.UserID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, domain.TypePayment, list[0].Type)
	require.Equal(t, "Payment Received - Order #42", list[0].Title)
	require.Contains(t, list[0].Message, "₱1,234.50")
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "₱300.00", formatAmount(300))
	require.Equal(t, "₱1,234.50", formatAmount(1234.5))
	require.Equal(t, "₱100,000.00", formatAmount(100000))
	require.Equal(t, "₱0.00", formatAmount(0))
	require.Equal(t, "-₱1,000.00", formatAmount(-1000))
}
