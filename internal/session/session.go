package session

import "context"

// Phase is the single dialogue phase a user is in at any moment.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseIntake    Phase = "in_intake"
	PhaseCandidate Phase = "candidate_pending"
)

// Step is the intake question currently awaiting an answer.
type Step int

const (
	StepName Step = iota
	StepGender
	StepAge
	StepHobbies
	StepBio
	StepDone
)

// Intake holds the answers collected so far. It lives only inside a Session
// and is discarded on cancel or converted into a Profile on commit; it is
// never persisted on its own.
type Intake struct {
	Step    Step   `json:"step"`
	Name    string `json:"name,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Age     string `json:"age,omitempty"`
	Hobbies string `json:"hobbies,omitempty"`
	Bio     string `json:"bio,omitempty"`
}

// Session is the ephemeral per-user dialogue state. LastCandidate is the most
// recently presented candidate id, overwritten on every presentation.
type Session struct {
	UserID        string  `json:"user_id"`
	Phase         Phase   `json:"phase"`
	Intake        *Intake `json:"intake,omitempty"`
	LastCandidate string  `json:"last_candidate,omitempty"`
}

// New returns an idle session for the user.
func New(userID string) *Session {
	return &Session{UserID: userID, Phase: PhaseIdle}
}

// Store keeps sessions by user identifier. Get returns (nil, nil) when no
// session exists yet.
type Store interface {
	Get(ctx context.Context, userID string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID string) error
}
