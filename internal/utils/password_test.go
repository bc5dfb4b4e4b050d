package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-ict/moneta-backend/internal/utils"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!pass", hash)

	assert.True(t, utils.CheckPasswordHash("Str0ng!pass", hash))
	assert.False(t, utils.CheckPasswordHash("wrong", hash))
}

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		strong   bool
	}{
		{"Str0ng!pass", true},
		{"Aa1!xx", true},
		{"short", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigits!!", false},
		{"NoSpecial11", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.strong, utils.IsStrongPassword(tc.password), "password %q", tc.password)
	}
}
