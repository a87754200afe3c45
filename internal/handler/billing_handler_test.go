package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDueDays(t *testing.T) {
	assert.Equal(t, 30, defaultDueDays(30*24*time.Hour))
	assert.Equal(t, 14, defaultDueDays(14*24*time.Hour))
	// sub-day and unset windows fall back to 30
	assert.Equal(t, 30, defaultDueDays(6*time.Hour))
	assert.Equal(t, 30, defaultDueDays(0))
}
