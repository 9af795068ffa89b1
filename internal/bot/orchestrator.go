package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/matchmates/matchmates-bot/internal/intake"
	"github.com/matchmates/matchmates-bot/internal/interest"
	"github.com/matchmates/matchmates-bot/internal/match"
	"github.com/matchmates/matchmates-bot/internal/profile"
	"github.com/matchmates/matchmates-bot/internal/session"
)

// EventKind classifies an inbound gateway event.
type EventKind string

const (
	EventCommand EventKind = "command"
	EventText    EventKind = "text"
	EventButton  EventKind = "button"
)

// Event is one inbound user action delivered by the messaging gateway.
type Event struct {
	UserID  string    `json:"user_id"`
	Kind    EventKind `json:"kind"`
	Payload string    `json:"payload"`
}

// Button action payloads the gateway renders and echoes back.
const (
	ButtonMatch     = "match"
	ButtonMyProfile = "my_profile"
	ButtonEdit      = "edit"
	ButtonLike      = "like"
	ButtonSkip      = "skip"
)

// Button is one tappable action offered with a reply.
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Reply is one outbound message. Buttons are rows of actions; rendering is
// the gateway's business.
type Reply struct {
	Text    string     `json:"text"`
	Buttons [][]Button `json:"buttons,omitempty"`
}

// Orchestrator routes inbound events to the intake machine and the matching
// and reciprocity engines based on the user's current session phase.
//
// Events for the same user are processed strictly in arrival order via a
// per-user lock; events for different users run concurrently and share no
// state outside the stores.
type Orchestrator struct {
	sessions    session.Store
	profiles    profile.Store
	intake      *intake.Machine
	matcher     *match.Engine
	reciprocity *interest.Engine
	log         *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOrchestrator(
	sessions session.Store,
	profiles profile.Store,
	machine *intake.Machine,
	matcher *match.Engine,
	reciprocity *interest.Engine,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		sessions:    sessions,
		profiles:    profiles,
		intake:      machine,
		matcher:     matcher,
		reciprocity: reciprocity,
		log:         log,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (o *Orchestrator) lockFor(userID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		o.locks[userID] = l
	}
	return l
}

// Handle processes one event to completion and returns the replies to send.
// Store failures propagate untranslated alongside a plain informational
// reply; internal error detail never reaches the user.
func (o *Orchestrator) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	l := o.lockFor(ev.UserID)
	l.Lock()
	defer l.Unlock()

	switch ev.Kind {
	case EventCommand:
		return o.handleCommand(ctx, ev.UserID, ev.Payload)
	case EventText:
		return o.handleText(ctx, ev.UserID, ev.Payload)
	case EventButton:
		return o.handleButton(ctx, ev.UserID, ev.Payload)
	default:
		o.log.Warn("unknown event kind", zap.String("kind", string(ev.Kind)))
		return nil, nil
	}
}

func (o *Orchestrator) handleCommand(ctx context.Context, userID, cmd string) ([]Reply, error) {
	switch strings.TrimSpace(cmd) {
	case "/start":
		return []Reply{{
			Text: "Welcome to MatchMates! Tap a button below to get going.",
			Buttons: [][]Button{
				{{Label: "🔍 Find match", Action: ButtonMatch}},
				{{Label: "📄 My profile", Action: ButtonMyProfile}},
			},
		}}, nil

	case "/me":
		return o.showProfile(ctx, userID)

	case "/profile":
		return o.beginIntake(ctx, userID, false)

	case "/edit":
		return o.beginIntake(ctx, userID, true)

	case "/cancel":
		return o.cancelIntake(ctx, userID)

	case "/match":
		return o.findMatch(ctx, userID)

	default:
		return []Reply{{Text: "Unknown command. Send /start to see the menu."}}, nil
	}
}

func (o *Orchestrator) handleText(ctx context.Context, userID, text string) ([]Reply, error) {
	sess, err := o.sessions.Get(ctx, userID)
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}
	if sess == nil || sess.Phase != session.PhaseIntake || sess.Intake == nil {
		return []Reply{{Text: "Send /start to see the menu."}}, nil
	}

	res, err := o.intake.Submit(ctx, userID, sess.Intake, text)
	if err != nil {
		return []Reply{{Text: "Couldn't save your profile right now. Please try again."}}, err
	}

	if res.Done {
		sess.Phase = session.PhaseIdle
		sess.Intake = nil
	}
	if err := o.sessions.Put(ctx, sess); err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}

	reply := Reply{Text: res.Prompt}
	if res.Done {
		reply.Buttons = [][]Button{{{Label: "🔍 Find match", Action: ButtonMatch}}}
	}
	return []Reply{reply}, nil
}

func (o *Orchestrator) handleButton(ctx context.Context, userID, action string) ([]Reply, error) {
	switch action {
	case ButtonMatch:
		return o.findMatch(ctx, userID)
	case ButtonMyProfile:
		return o.showProfile(ctx, userID)
	case ButtonEdit:
		return o.beginIntake(ctx, userID, true)
	case ButtonLike:
		return o.expressInterest(ctx, userID, interest.ActionLike)
	case ButtonSkip:
		return o.expressInterest(ctx, userID, interest.ActionSkip)
	default:
		o.log.Warn("unknown button action", zap.String("action", action))
		return nil, nil
	}
}

func (o *Orchestrator) beginIntake(ctx context.Context, userID string, isEdit bool) ([]Reply, error) {
	st, prompt, err := o.intake.Begin(ctx, userID, isEdit)
	if errors.Is(err, intake.ErrAlreadyComplete) {
		return []Reply{{
			Text:    "You've already completed your profile. Use edit to change it.",
			Buttons: [][]Button{{{Label: "✏️ Edit profile", Action: ButtonEdit}}},
		}}, nil
	}
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}

	sess, err := o.sessions.Get(ctx, userID)
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}
	if sess == nil {
		sess = session.New(userID)
	}
	sess.Phase = session.PhaseIntake
	sess.Intake = st
	if err := o.sessions.Put(ctx, sess); err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}
	return []Reply{{Text: prompt}}, nil
}

func (o *Orchestrator) cancelIntake(ctx context.Context, userID string) ([]Reply, error) {
	sess, err := o.sessions.Get(ctx, userID)
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}
	if sess == nil || sess.Phase != session.PhaseIntake {
		return []Reply{{Text: "Nothing to cancel."}}, nil
	}
	if err := o.sessions.Delete(ctx, userID); err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}
	return []Reply{{Text: "Profile setup cancelled. Send /profile to start over."}}, nil
}

func (o *Orchestrator) showProfile(ctx context.Context, userID string) ([]Reply, error) {
	p, err := o.profiles.Get(ctx, userID)
	if errors.Is(err, profile.ErrNotFound) {
		return []Reply{{Text: "You haven't filled in your profile yet. Send /profile to begin."}}, nil
	}
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}
	return []Reply{{
		Text: renderProfile("Your profile:", *p),
		Buttons: [][]Button{
			{{Label: "✏️ Edit profile", Action: ButtonEdit}},
			{{Label: "🔍 Find match", Action: ButtonMatch}},
		},
	}}, nil
}

func (o *Orchestrator) findMatch(ctx context.Context, userID string) ([]Reply, error) {
	candidate, err := o.matcher.FindMatch(ctx, userID)
	if errors.Is(err, match.ErrProfileRequired) {
		return []Reply{{Text: "You haven't filled in your profile yet. Send /profile to begin."}}, nil
	}
	if errors.Is(err, match.ErrNoCandidates) {
		return []Reply{{Text: "😢 No match available right now. Try again later!"}}, nil
	}
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}

	sess, err := o.sessions.Get(ctx, userID)
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}
	if sess == nil {
		sess = session.New(userID)
	}
	sess.Phase = session.PhaseCandidate
	if err := o.sessions.Put(ctx, sess); err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}

	return []Reply{{
		Text: renderProfile("🎯 Found a match for you:", *candidate),
		Buttons: [][]Button{{
			{Label: "❤️ Like", Action: ButtonLike},
			{Label: "🙅 Skip", Action: ButtonSkip},
		}},
	}}, nil
}

func (o *Orchestrator) expressInterest(ctx context.Context, userID string, action interest.Action) ([]Reply, error) {
	outcome, err := o.reciprocity.ExpressInterest(ctx, userID, action)
	if err != nil {
		return []Reply{{Text: "Something went wrong, please try again."}}, err
	}

	switch outcome {
	case interest.OutcomeMatched:
		return []Reply{{Text: "🎉 It's a match! You two can start chatting now."}}, nil
	case interest.OutcomePending:
		return []Reply{{Text: "❤️ Interest sent — waiting for them to respond!"}}, nil
	case interest.OutcomeSkipped:
		return []Reply{{
			Text:    "Skipped.",
			Buttons: [][]Button{{{Label: "🔍 Next match", Action: ButtonMatch}}},
		}}, nil
	default:
		return []Reply{{Text: "No candidate to respond to. Tap Find match first."}}, nil
	}
}

func renderProfile(header string, p profile.Profile) string {
	return fmt.Sprintf(
		"%s\n\nName: %s\nGender: %s\nAge: %s\nHobbies: %s\nBio: %s",
		header, p.Name, p.Gender, p.Age, p.Hobbies, p.Bio,
	)
}
