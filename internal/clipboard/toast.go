package clipboard

import (
	"sync"
	"time"
)

// AckDuration is how long the copy acknowledgment stays visible.
const AckDuration = 2 * time.Second

// Toast is a single transient message. Each Show returns a generation; a
// Clear for an older generation is ignored, so a newer message is never
// cleared by the timer of the one it replaced.
type Toast struct {
	mu      sync.Mutex
	msg     string
	gen     uint64
	expires time.Time
}

// Show replaces the current message for AckDuration.
func (t *Toast) Show(msg string, now time.Time) uint64 {
	return t.ShowFor(msg, now, AckDuration)
}

// ShowFor replaces the current message for ttl.
func (t *Toast) ShowFor(msg string, now time.Time, ttl time.Duration) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.msg = msg
	t.expires = now.Add(ttl)
	return t.gen
}

// Clear removes the message if gen is still current and reports whether it did.
func (t *Toast) Clear(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || t.msg == "" {
		return false
	}
	t.msg = ""
	return true
}

// Message returns the visible message, treating an expired one as cleared.
func (t *Toast) Message(now time.Time) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.msg == "" || !now.Before(t.expires) {
		return ""
	}
	return t.msg
}

// Generation returns the generation of the latest Show.
func (t *Toast) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}
