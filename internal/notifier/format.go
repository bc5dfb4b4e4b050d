package notifier

import (
	"fmt"
	"html"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/moneta-ict/moneta-backend/internal/platform/telegram"
)

// FormatNotification renders the operator message body in Telegram HTML.
func FormatNotification(n domain.OperatorNotification) string {
	username := html.EscapeString(n.Username)
	if username == "" {
		username = n.UserID
	}

	switch n.Type {
	case domain.TypeWithdrawal:
		text := fmt.Sprintf(
			"<b>New Withdrawal Request</b>\n\nReference: <code>%s</code>\nUser: %s\nAmount: %s %s",
			n.Reference, username, n.Amount.StringFixed(2), n.CurrencyCode,
		)
		if n.Bank != nil {
			text += fmt.Sprintf(
				"\nBank: %s\nAccount: %s (%s)",
				html.EscapeString(n.Bank.BankName),
				html.EscapeString(n.Bank.AccountNumber),
				html.EscapeString(n.Bank.AccountType),
			)
		}
		return text
	default:
		return fmt.Sprintf(
			"<b>New Deposit Request</b>\n\nReference: <code>%s</code>\nUser: %s\nAmount: %s %s\n\nPayment proof attached. Please verify and decide.",
			n.Reference, username, n.Amount.StringFixed(2), n.CurrencyCode,
		)
	}
}

// DecisionKeyboard builds the approve/reject inline keyboard for a request.
// The callback data round-trips through the webhook as approve_<reference>
// or reject_<reference>.
func DecisionKeyboard(reference string) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "✅ Approve", CallbackData: "approve_" + reference},
				{Text: "❌ Reject", CallbackData: "reject_" + reference},
			},
		},
	}
}
