package model

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of an interview conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// NormalizeRole folds the role spellings clients send onto RoleUser/RoleAssistant.
// Unknown roles are returned lower-cased and untouched.
func NormalizeRole(role string) string {
	switch r := strings.ToLower(strings.TrimSpace(role)); r {
	case "user", "candidate":
		return RoleUser
	case "assistant", "model", "ai", "interviewer":
		return RoleAssistant
	default:
		return r
	}
}

// CountUserTurns counts turns where the candidate actually said something.
func CountUserTurns(history []Turn) int {
	n := 0
	for _, t := range history {
		if NormalizeRole(t.Role) == RoleUser && strings.TrimSpace(t.Text) != "" {
			n++
		}
	}
	return n
}
