package models

// Candidate is a projection of another account offered to the current
// acting context. Candidates are ephemeral: the pool is refetched on every
// location or context change and never cached.
type Candidate struct {
	ID                  string `json:"id"`
	FirstName           string `json:"first_name"`
	FirstImage          string `json:"first_image,omitempty"`
	AIScore             *int   `json:"ai_score,omitempty"` // 0-100, server-computed
	Note                string `json:"note,omitempty"`
	MatchedByMatchmaker bool   `json:"matched_by_matchmaker"`
	LikedLinkedDater    bool   `json:"liked_linked_dater"`
}
