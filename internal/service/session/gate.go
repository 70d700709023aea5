package session

import (
	"log"
	"sync"
	"time"

	"github.com/mirrorpersona/backend/internal/model/chat"
)

// DefaultStaleAfter is how long a held lock is trusted before it is
// treated as orphaned by a crashed or hung turn.
const DefaultStaleAfter = 30 * time.Second

// Gate is the per-session single-flight lock. A second concurrent turn
// against the same session is rejected, not queued; a lock older than
// the staleness window is reclaimed so a lost release can never wedge a
// session permanently.
type Gate struct {
	mu         sync.Mutex
	staleAfter time.Duration
}

// NewGate returns a Gate with the given staleness window; zero means
// DefaultStaleAfter.
func NewGate(staleAfter time.Duration) *Gate {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Gate{staleAfter: staleAfter}
}

// TryAcquire attempts to take the session's lock at the given instant.
// When the session is already busy and the lock is still fresh, it
// returns false along with how long the caller should wait before
// retrying.
func (g *Gate) TryAcquire(sess *chat.Session, now time.Time) (granted bool, retryAfter time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if sess.Busy {
		elapsed := now.Sub(sess.BusySince)
		if elapsed < g.staleAfter {
			return false, g.staleAfter - elapsed
		}
		log.Printf("[gate] reclaiming stale lock for session=%s held for %s", sess.ID, elapsed)
	}

	sess.Busy = true
	sess.BusySince = now
	return true, 0
}

// Release unconditionally clears the lock state. It is safe to call on
// every exit path, including paths that never acquired.
func (g *Gate) Release(sess *chat.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sess.Busy = false
	sess.BusySince = time.Time{}
}

// Status reads the lock state for introspection surfaces. The lock
// fields are owned by the gate's mutex, so this is the only safe way
// to observe them from outside a turn.
func (g *Gate) Status(sess *chat.Session) (busy bool, since time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sess.Busy, sess.BusySince
}
