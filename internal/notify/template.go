package notify

import (
	"fmt"
	"strings"
)

// statusColor picks the status accent: green for delivered, red for
// cancelled, amber for everything in between.
func statusColor(status string) string {
	switch strings.ToLower(status) {
	case "delivered":
		return "#2e7d32"
	case "cancelled":
		return "#d32f2f"
	default:
		return "#f9a825"
	}
}

// OrderStatusHTML renders the transactional email body for any order
// lifecycle transition.
func OrderStatusHTML(e OrderEmail) string {
	return fmt.Sprintf(`
    <div style="font-family:'Segoe UI',Arial,sans-serif;font-size:16px;line-height:1.6;color:#333;background:linear-gradient(145deg,#f9f9f9,#e6f2e6);padding:30px;border-radius:12px;box-shadow:0 4px 12px rgba(0,0,0,0.1);max-width:600px;margin:0 auto;border:1px solid #d4d4d4;">
      <h2 style="color:#2e7d32;">Hello %s,</h2>
      <p style="margin-top:20px;">Your order <strong style="color:#1b5e20;">#%s</strong> status has been updated.</p>
      <p style="margin:10px 0;"><strong>Status:</strong>
        <span style="color:%s;font-weight:bold;">%s</span>
      </p>
      <div style="margin-top:20px;padding:15px;background-color:#f4fff6;border:1px dashed #a5d6a7;border-radius:8px;">
        <p><strong>Quantity:</strong> %d</p>
        <p><strong>Payment Method:</strong> %s</p>
        <p><strong>Total Amount:</strong> ₹%.0f</p>
        <p><strong>Order Date:</strong> %s</p>
      </div>
      <hr style="margin:30px 0;border:none;border-top:1px solid #ccc;">
      <p style="font-size:15px;">Thank you for shopping with <strong style="color:#388e3c;">GreenCart</strong>!</p>
    </div>`,
		e.Name, e.OrderID, statusColor(e.Status), e.Status,
		e.Quantity, e.PaymentMethod, e.Amount, e.OrderDate)
}
