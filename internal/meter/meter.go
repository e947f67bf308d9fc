// Package meter implements cumulative per-session token accounting.
package meter

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sirupsen/logrus"

	"github.com/sambhav874/WingHeights/internal/session"
)

const encodingName = "cl100k_base"

// Meter counts consumable units in a text and enforces a session budget.
// Charging is cumulative across the session lifetime, never per-turn, and
// the total is monotonically non-decreasing.
type Meter struct {
	budget   int
	encoding *tiktoken.Tiktoken
}

// New creates a meter with the given ceiling. When the BPE encoding cannot
// be loaded (offline environments) the meter falls back to counting
// whitespace-separated words.
func New(budget int) *Meter {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		logrus.WithError(err).Warnf("tiktoken encoding %s unavailable, falling back to word counting", encodingName)
		enc = nil
	}

	return &Meter{
		budget:   budget,
		encoding: enc,
	}
}

// Measure returns the unit count of text. Deterministic for a given meter.
func (m *Meter) Measure(text string) int {
	if m.encoding != nil {
		return len(m.encoding.Encode(text, nil, nil))
	}
	return len(strings.Fields(text))
}

// Charge adds n units to the session total and returns the new total.
// The turn that crosses the ceiling is still charged in full; OverBudget
// is evaluated against the post-charge total (charge-then-check).
func (m *Meter) Charge(sess *session.Session, n int) int {
	sess.TotalTokens += n
	return sess.TotalTokens
}

// OverBudget reports whether the session has exceeded its ceiling.
func (m *Meter) OverBudget(sess *session.Session) bool {
	return sess.TotalTokens > m.budget
}

// Budget returns the configured ceiling.
func (m *Meter) Budget() int {
	return m.budget
}
