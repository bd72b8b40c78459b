package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage es el sobre {role, content} que intercambia el chat.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
