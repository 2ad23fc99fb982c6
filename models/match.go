package models

// Blind-match visibility states. Only reveal/hide move between them.
const (
	BlindMatchBlind    = "Blind"
	BlindMatchRevealed = "Revealed"
)

// Match statuses. pending_approval exists only for matchmaker-mediated
// matches and transitions to active exactly once, via approval.
const (
	MatchStatusActive          = "active"
	MatchStatusPendingApproval = "pending_approval"
)

// Match is one side's view of a mutual match.
type Match struct {
	MatchID                 string `json:"match_id"`
	MatchUser               Dater  `json:"match_user"`
	LinkedDater             *Dater `json:"linked_dater,omitempty"`
	BlindMatch              string `json:"blind_match"`
	Status                  string `json:"status"`
	BothMatchmakersInvolved bool   `json:"both_matchmakers_involved"`
	User1MatchmakerInvolved bool   `json:"user_1_matchmaker_involved"`
	User2MatchmakerInvolved bool   `json:"user_2_matchmaker_involved"`
	MessageCount            int    `json:"message_count"`
	WaitingForOtherApproval bool   `json:"waiting_for_other_approval"`
}

// MatchmakerInvolved reports whether any matchmaker mediated this match.
func (m Match) MatchmakerInvolved() bool {
	return m.BothMatchmakersInvolved || m.User1MatchmakerInvolved || m.User2MatchmakerInvolved
}

// Direct reports whether the match belongs to the dater's "my direct
// matches" partition: no matchmaker involvement and no linked dater.
func (m Match) Direct() bool {
	return !m.MatchmakerInvolved() && m.LinkedDater == nil
}

// MatchList is the partitioned GET /match/matches response.
type MatchList struct {
	Matched         []Match `json:"matched"`
	PendingApproval []Match `json:"pending_approval"`
}

// ApprovalResult carries the authoritative gating fields returned by the
// approve endpoint. The client adopts these verbatim.
type ApprovalResult struct {
	Status                  string `json:"status"`
	WaitingForOtherApproval bool   `json:"waiting_for_other_approval"`
}
