package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))

	e1 := errors.New("one")
	err := Combine(nil, e1)
	assert.ErrorIs(t, err, e1)
}

func TestFormatNumberDE(t *testing.T) {
	assert.Equal(t, "625", FormatNumberDE(625))
	assert.Equal(t, "1.250", FormatNumberDE(1250))
	assert.Equal(t, "1.000.000", FormatNumberDE(1000000))
}

func TestFormatDateDE(t *testing.T) {
	assert.Equal(t, "05.03.2024", FormatDateDE(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
}

func TestRecoverStopsPanic(t *testing.T) {
	recovered := false
	func() {
		defer Recover("test")
		panic("boom")
	}()
	recovered = true
	assert.True(t, recovered)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512.00B", FormatBytes(512))
	assert.Equal(t, "1.50KB", FormatBytes(1536))
	assert.Equal(t, "2.00GB", FormatBytes(2<<30))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h 5m", FormatDuration(300))
	assert.Equal(t, "2d 3h 0m", FormatDuration(2*86400+3*3600))
}
