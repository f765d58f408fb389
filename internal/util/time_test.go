package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logreport-backend/internal/util"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "Explicit UTC Offset",
			input:    "2025-06-22T13:57:32+00:00",
			expected: time.Date(2025, 6, 22, 13, 57, 32, 0, time.UTC),
		},
		{
			name:     "Zulu Suffix",
			input:    "2025-06-22T13:57:32Z",
			expected: time.Date(2025, 6, 22, 13, 57, 32, 0, time.UTC),
		},
		{
			name:     "Non-UTC Offset Normalized",
			input:    "2025-06-22T23:57:32+05:00",
			expected: time.Date(2025, 6, 22, 18, 57, 32, 0, time.UTC),
		},
		{
			name:     "Fractional Seconds",
			input:    "2025-06-22T13:57:32.123456Z",
			expected: time.Date(2025, 6, 22, 13, 57, 32, 123456000, time.UTC),
		},
		{
			name:     "No Offset",
			input:    "2025-06-22T13:57:32",
			expected: time.Date(2025, 6, 22, 13, 57, 32, 0, time.UTC),
		},
		{
			name:     "Date Only",
			input:    "2025-06-22",
			expected: time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "Garbage",
			input:       "not-a-timestamp",
			expectError: true,
		},
		{
			name:        "Empty",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := util.ParseTimestamp(tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(result), "expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := util.ParseDate("2025-06-22")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC), d)

	_, err = util.ParseDate("22-06-2025")
	assert.Error(t, err)

	_, err = util.ParseDate("2025/06/22")
	assert.Error(t, err)
}
