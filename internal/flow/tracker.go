// Package flow issues per-session tokens for the search and episode flows so
// that a response superseded by a newer request of the same flow can be
// recognised and discarded.
package flow

import (
	"strconv"

	"github.com/Belphemur/ShowFinder/internal/cache"
	"github.com/rs/zerolog"
)

// Names of the interaction flows.
const (
	Search   = "search"
	Episodes = "episodes"
)

// Token identifies one request of a flow within a session.
type Token struct {
	Session string
	Flow    string
	Seq     uint64
}

// Tracker hands out monotonically increasing tokens per (session, flow).
// A disabled tracker considers every token current.
type Tracker struct {
	store   cache.Cache
	enabled bool
	logger  zerolog.Logger
}

// NewTracker returns a tracker backed by store. A nil store disables tracking.
func NewTracker(store cache.Cache, enabled bool, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:   store,
		enabled: enabled && store != nil,
		logger:  logger.With().Str("component", "flow").Logger(),
	}
}

// Enabled reports whether stale responses are being detected.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

func key(session, flow string) string {
	return "flow:" + session + ":" + flow
}

// Begin issues the newest token for the session's flow.
func (t *Tracker) Begin(session, flow string) Token {
	tok := Token{Session: session, Flow: flow}
	if !t.enabled {
		return tok
	}

	seq, err := t.store.Incr(key(session, flow))
	if err != nil {
		// Seq 0 is always treated as current.
		t.logger.Warn().Err(err).Str("flow", flow).Msg("Failed to issue flow token")
		return tok
	}
	tok.Seq = seq
	return tok
}

// IsCurrent reports whether no newer token was issued for the same session and
// flow since tok. Tokens that could not be tracked are always current.
func (t *Tracker) IsCurrent(tok Token) bool {
	if !t.enabled || tok.Seq == 0 {
		return true
	}

	raw, ok := t.store.Get(key(tok.Session, tok.Flow))
	if !ok {
		return true
	}
	latest, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		t.logger.Warn().Err(err).Str("flow", tok.Flow).Msg("Unreadable flow token")
		return true
	}
	return latest == tok.Seq
}
