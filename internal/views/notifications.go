package views

import (
	"fmt"
	"io"
	"time"

	"banking-dashboard/internal/domain"
)

// PrintNotifications writes the user's transaction notifications as a table.
func PrintNotifications(w io.Writer, notes []domain.Notification, now time.Time) {
	s := newStyles(w)
	fmt.Fprintln(w, s.title.Render("Notifications"))
	if len(notes) == 0 {
		fmt.Fprintln(w, s.subtle.Render("No notifications"))
		return
	}

	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		delivered := "no"
		if n.DeliverySuccessful {
			delivered = "yes"
		}
		rows = append(rows, []string{
			n.TransactionReference,
			string(n.TransactionType),
			domain.FormatAmount(n.Amount, n.Currency),
			string(n.TransactionStatus),
			n.Message,
			delivered,
			when(n.Timestamp, now),
		})
	}
	fmt.Fprintln(w, s.grid([]string{"Reference", "Type", "Amount", "Status", "Message", "Delivered", "When"}, rows, -1))
}
