package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeframeType_Valid(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly", "persistent"} {
		got, err := ParseTimeframeType(s)
		require.NoError(t, err, s)
		assert.Equal(t, TimeframeType(s), got)
	}
}

func TestParseTimeframeType_Invalid(t *testing.T) {
	for _, s := range []string{"", "yearly", "Daily", "week"} {
		_, err := ParseTimeframeType(s)
		assert.Error(t, err, s)
	}
}
