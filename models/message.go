package models

// MessageQuota caps how many messages a matchmaker may send into a
// pending_approval conversation before an approval is required.
const MessageQuota = 10

// Message is one entry in a match's append-only conversation. Ordering is
// server-assigned arrival order. A message must carry text, a puzzle, or
// both; an empty message is rejected before transmission.
type Message struct {
	ID         string `json:"id"`
	MatchID    string `json:"match_id"`
	SenderID   string `json:"sender_id"`
	Text       string `json:"text,omitempty"`
	PuzzleType string `json:"puzzle_type,omitempty"`
	PuzzleLink string `json:"puzzle_link,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Puzzle is the optional interactive payload of a message. It may be sent
// standalone or alongside text.
type Puzzle struct {
	Type string `json:"puzzle_type"`
	Link string `json:"puzzle_link"`
}

// ConversationPage is the GET/POST /conversation/{matchId} response: the
// full message list plus the updated match, whose message_count and gating
// fields are the server's authoritative quota accounting.
type ConversationPage struct {
	MatchID  string    `json:"match_id"`
	Messages []Message `json:"messages"`
	Match    *Match    `json:"match,omitempty"`
}
