package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totodo-app/totodo/internal/domain"
)

func TestToggleTask_Execute(t *testing.T) {
	// Setup
	f := newTaskFixture(true)
	f.seedTask("t1", "Flip me")
	uc := NewToggleTask(f.local, f.updateTask())

	// Execute: toggle twice
	out, err := uc.Execute(context.Background(), ToggleTaskInput{TaskID: "t1"})
	require.NoError(t, err)
	assert.True(t, out.Task.Completed)

	out, err = uc.Execute(context.Background(), ToggleTaskInput{TaskID: "t1"})
	require.NoError(t, err)
	assert.False(t, out.Task.Completed)

	// Both flips went through the remote mirror.
	assert.Len(t, f.remote.Updated, 2)
}

func TestToggleTask_Execute_NotFound(t *testing.T) {
	f := newTaskFixture(true)
	uc := NewToggleTask(f.local, f.updateTask())

	_, err := uc.Execute(context.Background(), ToggleTaskInput{TaskID: "missing"})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
