package utils

import (
	"fmt"
	"time"
)

// Reference prefixes by request type.
const (
	RefPrefixDeposit      = "DEP"
	RefPrefixWithdrawal   = "WDR"
	RefPrefixInvestment   = "INV"
	RefPrefixWelcomeBonus = "WBN"
)

// NewReference builds an externally unique request reference:
// prefix + millisecond timestamp + 8 hex chars of randomness. References are
// shown to users and embedded in operator callback data, so they stay short
// and URL-safe.
func NewReference(prefix string) (string, error) {
	suffix, err := GenerateSecureRandomString(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate reference suffix: %w", err)
	}
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), suffix), nil
}
