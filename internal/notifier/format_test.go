package notifier_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/moneta-ict/moneta-backend/internal/notifier"
)

func TestFormatNotification_Deposit(t *testing.T) {
	text := notifier.FormatNotification(domain.OperatorNotification{
		Reference:    "DEP1",
		Type:         domain.TypeDeposit,
		Username:     "maria",
		Amount:       decimal.NewFromInt(50000),
		CurrencyCode: "COP",
		EvidenceURL:  "http://host/uploads/proof.png",
	})

	assert.Contains(t, text, "New Deposit Request")
	assert.Contains(t, text, "DEP1")
	assert.Contains(t, text, "maria")
	assert.Contains(t, text, "50000.00 COP")
}

func TestFormatNotification_WithdrawalIncludesBank(t *testing.T) {
	text := notifier.FormatNotification(domain.OperatorNotification{
		Reference:    "WDR1",
		Type:         domain.TypeWithdrawal,
		Username:     "maria",
		Amount:       decimal.NewFromInt(600),
		CurrencyCode: "COP",
		Bank: &domain.BankDetails{
			BankName:      "Bancolombia",
			AccountNumber: "123456",
			AccountType:   "savings",
		},
	})

	assert.Contains(t, text, "New Withdrawal Request")
	assert.Contains(t, text, "Bancolombia")
	assert.Contains(t, text, "123456")
	assert.Contains(t, text, "savings")
}

func TestFormatNotification_EscapesHTML(t *testing.T) {
	text := notifier.FormatNotification(domain.OperatorNotification{
		Reference:    "DEP1",
		Type:         domain.TypeDeposit,
		Username:     "<script>alert(1)</script>",
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "COP",
	})

	assert.NotContains(t, text, "<script>")
}

func TestDecisionKeyboard(t *testing.T) {
	markup := notifier.DecisionKeyboard("DEP1")

	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "approve_DEP1", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "reject_DEP1", markup.InlineKeyboard[0][1].CallbackData)
}
