package interest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matchmates/matchmates-bot/internal/session"
)

func newTestEngine(t *testing.T) (*Engine, *MemoryStore, *session.MemoryStore) {
	t.Helper()
	edges := NewMemoryStore()
	sessions := session.NewMemoryStore()
	return NewEngine(edges, sessions, zap.NewNop()), edges, sessions
}

func present(t *testing.T, sessions *session.MemoryStore, userID, candidate string) {
	t.Helper()
	sess := session.New(userID)
	sess.LastCandidate = candidate
	require.NoError(t, sessions.Put(context.Background(), sess))
}

func TestReciprocitySymmetry(t *testing.T) {
	e, edges, sessions := newTestEngine(t)
	ctx := context.Background()

	present(t, sessions, "x", "y")
	outcome, err := e.ExpressInterest(ctx, "x", ActionLike)
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, outcome)

	present(t, sessions, "y", "x")
	outcome, err = e.ExpressInterest(ctx, "y", ActionLike)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, outcome)

	// Both directions persisted.
	for _, pair := range [][2]string{{"x", "y"}, {"y", "x"}} {
		has, err := edges.HasEdge(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, has)
	}
}

func TestReciprocityLikeIsIdempotent(t *testing.T) {
	e, edges, sessions := newTestEngine(t)
	ctx := context.Background()

	present(t, sessions, "x", "y")

	outcome, err := e.ExpressInterest(ctx, "x", ActionLike)
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, outcome)

	// Second like on the same pair: still one edge, still pending.
	outcome, err = e.ExpressInterest(ctx, "x", ActionLike)
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, outcome)
	assert.Equal(t, 1, edges.Len())
}

func TestReciprocitySkipLeavesStoreUntouched(t *testing.T) {
	e, edges, sessions := newTestEngine(t)
	ctx := context.Background()

	present(t, sessions, "x", "y")
	outcome, err := e.ExpressInterest(ctx, "x", ActionSkip)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)
	assert.Equal(t, 0, edges.Len())

	// The candidate reference stays in place until the next presentation.
	sess, err := sessions.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "y", sess.LastCandidate)
}

func TestReciprocityNoTarget(t *testing.T) {
	e, edges, _ := newTestEngine(t)
	ctx := context.Background()

	// No find_match has run: the action is a no-op, never a fault.
	outcome, err := e.ExpressInterest(ctx, "x", ActionLike)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoTarget, outcome)
	assert.Equal(t, 0, edges.Len())
}
