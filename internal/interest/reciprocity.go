package interest

import (
	"context"

	"go.uber.org/zap"

	"github.com/matchmates/matchmates-bot/internal/session"
)

// Action is what the user did with the presented candidate.
type Action string

const (
	ActionLike Action = "like"
	ActionSkip Action = "skip"
)

// Outcome of an ExpressInterest call.
type Outcome int

const (
	// OutcomeNoTarget means no candidate had been presented; nothing changed.
	OutcomeNoTarget Outcome = iota
	// OutcomeSkipped means the user passed on the candidate; nothing changed.
	OutcomeSkipped
	// OutcomePending means interest was recorded one-directionally.
	OutcomePending
	// OutcomeMatched means both directions now exist for the pair.
	OutcomeMatched
)

// Engine records interest edges and detects mutual matches.
type Engine struct {
	edges    Store
	sessions session.Store
	log      *zap.Logger
}

func NewEngine(edges Store, sessions session.Store, log *zap.Logger) *Engine {
	return &Engine{edges: edges, sessions: sessions, log: log}
}

// ExpressInterest resolves the action against the user's last presented
// candidate. A like is written durably before the reverse-edge check so two
// concurrent mutual likes cannot both miss the match: whichever write lands
// second is guaranteed to observe the first.
//
// Skip leaves the candidate reference in place; the next FindMatch overwrites
// it. With no candidate presented the call is a logged no-op, never a fault.
func (e *Engine) ExpressInterest(ctx context.Context, userID string, action Action) (Outcome, error) {
	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return OutcomeNoTarget, err
	}
	if sess == nil || sess.LastCandidate == "" {
		e.log.Debug("interest action without a presented candidate",
			zap.String("user_id", userID), zap.String("action", string(action)))
		return OutcomeNoTarget, nil
	}
	target := sess.LastCandidate

	if action == ActionSkip {
		return OutcomeSkipped, nil
	}

	if err := e.edges.UpsertEdge(ctx, userID, target); err != nil {
		return OutcomeNoTarget, err
	}
	mutual, err := e.edges.HasEdge(ctx, target, userID)
	if err != nil {
		return OutcomeNoTarget, err
	}
	if mutual {
		e.log.Info("mutual match",
			zap.String("user_id", userID), zap.String("target_id", target))
		return OutcomeMatched, nil
	}
	return OutcomePending, nil
}
