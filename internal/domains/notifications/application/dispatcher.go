package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"
	ordersdomain "github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
)

// Dispatcher turns order lifecycle events into in-app notifications and
// emails. Every write and send is best-effort and isolated per recipient:
// one failing admin never blocks the others, and nothing here can fail the
// order mutation that already committed.
type Dispatcher struct {
	repo   ports.Repository
	mailer ports.Mailer
	users  authports.UserRepository
	logger *slog.Logger
}

func NewDispatcher(repo ports.Repository, mailer ports.Mailer, users authports.UserRepository, logger *slog.Logger) *Dispatcher {
	if mailer == nil {
		mailer = ports.NoopMailer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{repo: repo, mailer: mailer, users: users, logger: logger}
}

// Dispatch routes the event. Unknown event types are logged and ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, event ordersdomain.Event) ports.DeliveryResult {
	switch e := event.(type) {
	case ordersdomain.OrderCreated:
		return d.orderCreated(ctx, e)
	case ordersdomain.StatusChanged:
		return d.statusChanged(ctx, e)
	case ordersdomain.PaymentReceived:
		return d.paymentReceived(ctx, e)
	default:
		d.logger.Warn("unhandled order event", slog.String("event", event.EventName()))
		return ports.DeliveryResult{}
	}
}

// orderCreated notifies every admin in-app and by email, then sends the
// customer confirmation when the order carries a usable address. Admin
// fan-out runs concurrently; each admin's delivery is independent and no
// ordering between admins is promised.
func (d *Dispatcher) orderCreated(ctx context.Context, e ordersdomain.OrderCreated) ports.DeliveryResult {
	var result ports.DeliveryResult
	order := e.Order

	admins, err := d.users.ListAdmins(ctx)
	if err != nil {
		d.logger.Error("failed to list admins for order fan-out",
			slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		result.Warn("admin notifications skipped: " + err.Error())
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, admin := range admins {
		wg.Add(1)
		go func(adminID int64, adminName, adminEmail string) {
			defer wg.Done()

			recipient := adminID
			notification, err := domain.New(&recipient, domain.TypeOrder,
				"New Order Received",
				fmt.Sprintf("Order #%d from %s - Total: %s", order.ID, order.Customer.Name, formatAmount(order.TotalCost)),
				"/orders")
			if err == nil {
				_, err = d.repo.Create(ctx, notification)
			}

			var sendErr error
			sent := false
			if adminEmail != "" {
				sendErr = d.mailer.Send(ctx, adminEmail, fmt.Sprintf("New Order #%d", order.ID), adminOrderEmail(adminName, order))
				sent = sendErr == nil
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.logger.Error("failed to write admin notification",
					slog.Int64("order_id", order.ID), slog.Int64("admin_id", adminID), slog.String("error", err.Error()))
				result.Warn(fmt.Sprintf("notification for admin %d failed", adminID))
			} else {
				result.NotificationsCreated++
			}
			if sendErr != nil {
				d.logger.Error("failed to email admin",
					slog.Int64("order_id", order.ID), slog.Int64("admin_id", adminID), slog.String("error", sendErr.Error()))
				result.Warn(fmt.Sprintf("email to admin %d failed", adminID))
			} else if sent {
				result.EmailsSent++
			}
		}(admin.ID, admin.Name, admin.Email)
	}
	wg.Wait()

	if to := order.NotifiableEmail(); to != "" {
		subject := fmt.Sprintf("New Laundry Order #%d", order.ID)
		if err := d.mailer.Send(ctx, to, subject, customerConfirmationEmail(order)); err != nil {
			d.logger.Error("customer confirmation email failed",
				slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
			result.Warn("confirmation email could not be delivered")
		} else {
			result.EmailsSent++
		}
	}
	return result
}

// statusChanged writes an in-app notification to the owning registered user.
// Status changes do not email; email is reserved for creation and payment.
func (d *Dispatcher) statusChanged(ctx context.Context, e ordersdomain.StatusChanged) ports.DeliveryResult {
	var result ports.DeliveryResult
	order := e.Order
	if !order.Customer.Registered() {
		return result
	}
	recipient := order.Customer.UserID
	notification, err := domain.New(&recipient, domain.TypeOrder,
		fmt.Sprintf("Order #%d Status Updated", order.ID),
		fmt.Sprintf("Your order status has been changed to: %s", e.To),
		"/orders/status")
	if err == nil {
		_, err = d.repo.Create(ctx, notification)
	}
	if err != nil {
		d.logger.Error("failed to write status notification",
			slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		result.Warn("status notification failed")
		return result
	}
	result.NotificationsCreated++
	return result
}

// paymentReceived notifies the owning user of the recorded amount.
func (d *Dispatcher) paymentReceived(ctx context.Context, e ordersdomain.PaymentReceived) ports.DeliveryResult {
	var result ports.DeliveryResult
	order := e.Order
	if !order.Customer.Registered() {
		return result
	}
	recipient := order.Customer.UserID
	notification, err := domain.New(&recipient, domain.TypePayment,
		fmt.Sprintf("Payment Received - Order #%d", order.ID),
		fmt.Sprintf("We have received your payment of %s", formatAmount(e.Amount)),
		"/orders/status")
	if err == nil {
		_, err = d.repo.Create(ctx, notification)
	}
	if err != nil {
		d.logger.Error("failed to write payment notification",
			slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		result.Warn("payment notification failed")
		return result
	}
	result.NotificationsCreated++
	return result
}

var _ ports.Dispatcher = (*Dispatcher)(nil)
