package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.Info("Sync Complete", "All tasks synchronized successfully")
	console.Warn("Sync Failed", "Unable to sync tasks. Will retry automatically.")

	out := buf.String()
	assert.Contains(t, out, "Sync Complete: All tasks synchronized successfully\n")
	assert.Contains(t, out, "warning: Sync Failed: Unable to sync tasks. Will retry automatically.\n")
}
