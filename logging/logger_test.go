package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"bogus": zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
	}
	for in, want := range cases {
		logger := New(in)
		assert.True(t, logger.Core().Enabled(want), "level %q", in)
		if want > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(want-1), "level %q", in)
		}
	}
}
