package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-ict/moneta-backend/internal/utils"
)

func TestNewReference(t *testing.T) {
	ref, err := utils.NewReference(utils.RefPrefixDeposit)
	require.NoError(t, err)

	assert.True(t, len(ref) > len(utils.RefPrefixDeposit))
	assert.Equal(t, "DEP", ref[:3])
}

func TestNewReference_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := utils.NewReference(utils.RefPrefixWithdrawal)
		require.NoError(t, err)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
