package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matchmates/matchmates-bot/internal/profile"
	"github.com/matchmates/matchmates-bot/internal/session"
)

// SkipToken is the answer that marks the hobbies or bio step as unanswered.
const SkipToken = "skip"

// ErrAlreadyComplete is returned by Begin when a first-time intake is
// requested for a user who already committed a profile.
var ErrAlreadyComplete = errors.New("profile already complete")

const (
	promptName    = "Let's set up your profile! First, what's your name?"
	promptGender  = "What's your gender? (male / female / other)"
	promptAge     = "How old are you?"
	promptHobbies = "List your hobbies, separated by commas. Send \"skip\" to leave this empty."
	promptBio     = "Write a short bio about yourself. Send \"skip\" to leave this empty."
)

// Machine drives the ordered question sequence and commits the finished
// record. All in-progress state lives in the session's Intake value, so the
// machine itself is stateless and safe to share.
type Machine struct {
	profiles profile.Store
}

func NewMachine(profiles profile.Store) *Machine {
	return &Machine{profiles: profiles}
}

// Begin starts a fresh intake at the name step and returns its first prompt.
// The first-time trigger refuses when a profile already exists; the edit
// trigger always proceeds and overwrites on commit.
func (m *Machine) Begin(ctx context.Context, userID string, isEdit bool) (*session.Intake, string, error) {
	if !isEdit {
		_, err := m.profiles.Get(ctx, userID)
		if err == nil {
			return nil, "", ErrAlreadyComplete
		}
		if !errors.Is(err, profile.ErrNotFound) {
			return nil, "", err
		}
	}
	return &session.Intake{Step: session.StepName}, promptName, nil
}

// Result of consuming one answer.
type Result struct {
	Prompt string // next question, or the confirmation summary when Done
	Done   bool
	Saved  *profile.Profile // set when Done
}

// Submit consumes one text answer for the current step, mutating st. Answers
// are stored verbatim and case-preserving; only the hobbies and bio steps
// translate the skip token into the "unspecified" sentinel. The final answer
// commits the whole record in one upsert; on store failure nothing is written
// and the error propagates untranslated.
func (m *Machine) Submit(ctx context.Context, userID string, st *session.Intake, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Prompt: currentPrompt(st.Step)}, nil
	}

	switch st.Step {
	case session.StepName:
		st.Name = text
		st.Step = session.StepGender
		return Result{Prompt: promptGender}, nil

	case session.StepGender:
		st.Gender = text
		st.Step = session.StepAge
		return Result{Prompt: promptAge}, nil

	case session.StepAge:
		// Consumed as text; the matching engine interprets it as an integer.
		st.Age = text
		st.Step = session.StepHobbies
		return Result{Prompt: promptHobbies}, nil

	case session.StepHobbies:
		st.Hobbies = orUnspecified(text)
		st.Step = session.StepBio
		return Result{Prompt: promptBio}, nil

	case session.StepBio:
		st.Bio = orUnspecified(text)
		st.Step = session.StepDone

		p := profile.Profile{
			UserID:  userID,
			Name:    st.Name,
			Gender:  st.Gender,
			Age:     st.Age,
			Hobbies: st.Hobbies,
			Bio:     st.Bio,
		}
		if err := m.profiles.Upsert(ctx, p); err != nil {
			return Result{}, err
		}
		return Result{Prompt: Summary(p), Done: true, Saved: &p}, nil
	}

	return Result{Prompt: promptName}, nil
}

func orUnspecified(text string) string {
	if strings.EqualFold(strings.TrimSpace(text), SkipToken) {
		return profile.Unspecified
	}
	return text
}

func currentPrompt(step session.Step) string {
	switch step {
	case session.StepGender:
		return promptGender
	case session.StepAge:
		return promptAge
	case session.StepHobbies:
		return promptHobbies
	case session.StepBio:
		return promptBio
	default:
		return promptName
	}
}

// Summary renders the confirmation message echoing the saved values.
func Summary(p profile.Profile) string {
	return fmt.Sprintf(
		"Profile saved!\n\nName: %s\nGender: %s\nAge: %s\nHobbies: %s\nBio: %s",
		p.Name, p.Gender, p.Age, p.Hobbies, p.Bio,
	)
}
