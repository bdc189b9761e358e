package application

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	ordersdomain "github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
)

// formatAmount renders a currency amount with thousands separators, e.g.
// "₱1,234.50".
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]
	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₱%s.%s", sign, b.String(), parts[1])
}

// customerConfirmationEmail builds the order confirmation body: order id,
// itemized summary, mode, ready-by date, total, and the pay-on-pickup note.
func customerConfirmationEmail(order *ordersdomain.Order) string {
	name := html.EscapeString(order.Customer.Name)
	summary := html.EscapeString(order.Summary)
	total := formatAmount(order.TotalCost)
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hello <strong>%s</strong>,</p>", name)
	b.WriteString("<p>Thank you for choosing our laundry service! Your order has been received.</p>")
	b.WriteString("<h3>Order Details:</h3><ul>")
	fmt.Fprintf(&b, "<li><strong>Order #:</strong> %d</li>", order.ID)
	fmt.Fprintf(&b, "<li><strong>Services:</strong> %s</li>", summary)
	fmt.Fprintf(&b, "<li><strong>Service Mode:</strong> %s</li>", order.Mode)
	fmt.Fprintf(&b, "<li><strong>Ready By:</strong> %s</li>", order.DueDate.Format("January 02, 2006"))
	fmt.Fprintf(&b, "<li><strong>Total Amount:</strong> %s</li>", total)
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Payment:</strong> Please pay %s when you pick up your order.</p>", total)
	b.WriteString("<p>We will notify you when your order is ready for pickup.</p>")
	return b.String()
}

// adminOrderEmail builds the staff alert body for a new order.
func adminOrderEmail(adminName string, order *ordersdomain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hello %s,</p>", html.EscapeString(adminName))
	fmt.Fprintf(&b, "<p>New order received from <strong>%s</strong></p>", html.EscapeString(order.Customer.Name))
	fmt.Fprintf(&b, "<p>Order #: %d</p>", order.ID)
	fmt.Fprintf(&b, "<p>Total: %s</p>", formatAmount(order.TotalCost))
	return b.String()
}
