package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coddify/pkg/tutortypes"
)

func TestNewTurn(t *testing.T) {
	turn := NewTurn(tutortypes.RoleUser, "hello")

	assert.NotEmpty(t, turn.ID)
	assert.Equal(t, tutortypes.RoleUser, turn.Role)
	assert.Equal(t, "hello", turn.Content)
	assert.False(t, turn.Timestamp.IsZero())
}

func TestStore_AppendAndSnapshot(t *testing.T) {
	store := NewStore()
	store.Append(
		NewTurn(tutortypes.RoleUser, "question"),
		NewTurn(tutortypes.RoleModel, "answer"),
	)

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "question", snapshot[0].Content)
	assert.Equal(t, "answer", snapshot[1].Content)
	assert.Equal(t, 2, store.Len())
}

func TestStore_UpdateLast(t *testing.T) {
	tests := []struct {
		name     string
		setup    []tutortypes.Turn
		role     tutortypes.Role
		content  string
		expected string // content of last turn after the call, "" when empty store
	}{
		{
			name:     "updates matching role",
			setup:    []tutortypes.Turn{NewTurn(tutortypes.RoleModel, "old")},
			role:     tutortypes.RoleModel,
			content:  "new",
			expected: "new",
		},
		{
			name:     "no-op on role mismatch",
			setup:    []tutortypes.Turn{NewTurn(tutortypes.RoleUser, "old")},
			role:     tutortypes.RoleModel,
			content:  "new",
			expected: "old",
		},
		{
			name:    "no-op on empty store",
			setup:   nil,
			role:    tutortypes.RoleModel,
			content: "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			store.Append(tt.setup...)

			store.UpdateLast(tt.role, tt.content)

			last, ok := store.Last()
			if tt.setup == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.expected, last.Content)
		})
	}
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	store.Append(NewTurn(tutortypes.RoleModel, "greeting"))

	store.Reset()

	assert.Equal(t, 0, store.Len())
	_, ok := store.Last()
	assert.False(t, ok)

	// UpdateLast after reset stays a no-op
	store.UpdateLast(tutortypes.RoleModel, "stale timer callback")
	assert.Equal(t, 0, store.Len())
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := NewStore()
	store.Append(NewTurn(tutortypes.RoleModel, "original"))

	snapshot := store.Snapshot()
	snapshot[0].Content = "mutated"

	last, ok := store.Last()
	require.True(t, ok)
	assert.Equal(t, "original", last.Content)
}
