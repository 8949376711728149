package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel(" WARNING "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestLogrusLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLoggerTo(&buf, WarnLevel, true)

	log.Info("hidden %d", 1)
	assert.Empty(t, buf.String())

	log.WithField("booking_id", 42).Error("booking failed: %s", "db down")
	assert.Contains(t, buf.String(), `"booking_id":42`)
	assert.Contains(t, buf.String(), "booking failed: db down")
}
