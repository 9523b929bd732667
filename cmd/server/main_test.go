package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncRecorder struct {
	bytes.Buffer
	synced bool
}

func (s *syncRecorder) Sync() error {
	s.synced = true
	return nil
}

func newRecordingLogger(out *syncRecorder) *zap.Logger {
	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), out, zapcore.InfoLevel))
}

func TestFinish(t *testing.T) {
	t.Run("error is logged and flushed", func(t *testing.T) {
		out := &syncRecorder{}
		code := finish(newRecordingLogger(out), errors.New("listen tcp :8080: address already in use"))

		assert.Equal(t, 1, code)
		assert.True(t, out.synced)
		assert.Contains(t, out.String(), "server stopped")
		assert.Contains(t, out.String(), "address already in use")
	})

	t.Run("clean shutdown", func(t *testing.T) {
		out := &syncRecorder{}
		assert.Equal(t, 0, finish(newRecordingLogger(out), nil))
		assert.True(t, out.synced)
		assert.Empty(t, out.String())
	})
}
