// Package prompt builds the ordered instruction sequence sent to the
// generation model and owns the per-language wording (system instructions,
// example replies, canned fallbacks).
package prompt

// Role tags a message in the model conversation.
type Role string

const (
	// RoleSystem carries the assistant instructions.
	RoleSystem Role = "system"
	// RoleUser carries user utterances.
	RoleUser Role = "user"
	// RoleAssistant carries prior assistant replies.
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged content unit of a generation request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
