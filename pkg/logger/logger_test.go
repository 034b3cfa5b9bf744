package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env   string
		debug bool
		level zap.AtomicLevel
	}{
		{"production", false, zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"production", true, zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"development", false, zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := New(tt.env, tt.debug)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, l.Core().Enabled(zap.DebugLevel))
			assert.True(t, l.Core().Enabled(zap.InfoLevel))
		})
	}
}
