package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger(debug bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{logger: slog.New(handler), debug: debug}, &buf
}

func TestLogger_DebugGating(t *testing.T) {
	logger, buf := testLogger(false)
	logger.Debug("connected to card", "reader", "ACS ACR39U")
	assert.Empty(t, buf.String())

	logger, buf = testLogger(true)
	logger.Debug("connected to card", "reader", "ACS ACR39U")
	assert.Contains(t, buf.String(), "connected to card")
	assert.Contains(t, buf.String(), "ACS ACR39U")
}

func TestLogger_Levels(t *testing.T) {
	logger, buf := testLogger(false)

	logger.Info("authentication token signed", "algorithm", "ES384")
	logger.Warn("PIN verification failed", "retries", 2)
	logger.Error(errors.New("card removed"))

	out := buf.String()
	assert.Contains(t, out, "authentication token signed")
	assert.Contains(t, out, "PIN verification failed")
	assert.Contains(t, out, "card removed")
}
