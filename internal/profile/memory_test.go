package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpsertGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	p := Profile{UserID: "u1", Name: "Alice", Gender: "A", Age: "30", Hobbies: "chess", Bio: "bio"}
	require.NoError(t, s.Upsert(ctx, p))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	// Upsert overwrites the whole record.
	p.Name = "Alicia"
	require.NoError(t, s.Upsert(ctx, p))
	got, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
}

func TestMemoryStoreScanExcludes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, Profile{UserID: "me", Gender: "A"}))
	require.NoError(t, s.Upsert(ctx, Profile{UserID: "same-gender", Gender: "A"}))
	require.NoError(t, s.Upsert(ctx, Profile{UserID: "other1", Gender: "B"}))
	require.NoError(t, s.Upsert(ctx, Profile{UserID: "other2", Gender: "Other"}))

	out, err := s.Scan(ctx, "me", "A")
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, p := range out {
		assert.NotEqual(t, "me", p.UserID)
		assert.NotEqual(t, "A", p.Gender)
	}
}
