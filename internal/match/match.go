package match

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/matchmates/matchmates-bot/internal/profile"
	"github.com/matchmates/matchmates-bot/internal/session"
)

// MaxAgeGap is the widest allowed age difference between two users.
const MaxAgeGap = 5

var (
	// ErrProfileRequired means the requester has no committed profile.
	ErrProfileRequired = errors.New("profile required")
	// ErrNoCandidates is the normal empty result, not a failure.
	ErrNoCandidates = errors.New("no candidates")
)

// Engine selects one presentable candidate for a requester.
//
// The compatibility rule is deliberately simple: different gender (a plain
// inequality, not an orientation preference), age difference within MaxAgeGap,
// and at least one shared hobby tag.
type Engine struct {
	profiles profile.Store
	sessions session.Store
	log      *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine builds an engine around the given random source; tests pass a
// seeded source to pin the selection.
func NewEngine(profiles profile.Store, sessions session.Store, rng *rand.Rand, log *zap.Logger) *Engine {
	return &Engine{profiles: profiles, sessions: sessions, rng: rng, log: log}
}

// FindMatch picks one eligible candidate uniformly at random, records it as
// the requester's last presented candidate, and returns it. Repeated calls
// against the same pool may return different candidates.
//
// The requester's own malformed age counts as zero; a candidate with a
// malformed age is dropped silently so one corrupt record cannot abort the
// scan. With no eligible candidates the session is left untouched.
func (e *Engine) FindMatch(ctx context.Context, userID string) (*profile.Profile, error) {
	me, err := e.profiles.Get(ctx, userID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, ErrProfileRequired
	}
	if err != nil {
		return nil, err
	}

	myAge, err := parseAge(me.Age)
	if err != nil {
		myAge = 0
	}
	myHobbies := hobbySet(me.Hobbies)

	pool, err := e.profiles.Scan(ctx, userID, me.Gender)
	if err != nil {
		return nil, err
	}

	var candidates []profile.Profile
	for _, c := range pool {
		age, err := parseAge(c.Age)
		if err != nil {
			e.log.Debug("skipping candidate with unparseable age",
				zap.String("candidate_id", c.UserID), zap.String("age", c.Age))
			continue
		}
		diff := age - myAge
		if diff < 0 {
			diff = -diff
		}
		if diff > MaxAgeGap {
			continue
		}
		if !intersects(myHobbies, hobbySet(c.Hobbies)) {
			continue
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	e.mu.Lock()
	chosen := candidates[e.rng.Intn(len(candidates))]
	e.mu.Unlock()

	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = session.New(userID)
	}
	sess.LastCandidate = chosen.UserID
	if err := e.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	return &chosen, nil
}

func parseAge(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// hobbySet splits a comma-delimited tag list into a set of trimmed tags.
// The "unspecified" sentinel is not special-cased: it becomes an ordinary
// tag, so two users who both skipped the hobbies step still share one.
func hobbySet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	for tag := range a {
		if _, ok := b[tag]; ok {
			return true
		}
	}
	return false
}
