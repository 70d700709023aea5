package chat

// Roles for history entries. The model role mirrors the wire format the
// generation provider expects.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is a single turn entry in a session's history.
type Message struct {
	Role     string `json:"role"`
	Text     string `json:"text"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// Duplicates reports whether appending other right after m would violate
// the history dedup invariant: two consecutive entries must never share
// both the same role and the same text. Audio is ignored on purpose, a
// retried delivery may differ only in its audio locator.
func (m Message) Duplicates(other Message) bool {
	return m.Role == other.Role && m.Text == other.Text
}
