package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info by default", false, false},
		{"debug flag", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.debug)

			logger.Debug("hidden unless debugging")
			logger.Info("always shown")

			assert.Contains(t, buf.String(), "always shown")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("hidden unless debugging")))
		})
	}
}
