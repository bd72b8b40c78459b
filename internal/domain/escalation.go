package domain

import "time"

const (
	EscalationPending  = "pending"
	EscalationResolved = "resolved"
)

const (
	PriorityEmergency = "emergency"
	PriorityHigh      = "high"
	PriorityMedium    = "medium"
)

// Escalation representa un pedido de intervencion humana para un usuario anonimo.
type Escalation struct {
	ID                string     `json:"id"`
	AnonymousUserHash string     `json:"anonymous_user_hash"`
	SessionHash       string     `json:"session_hash,omitempty"`
	Reason            string     `json:"reason"`
	Priority          string     `json:"priority"`
	CrisisRuleID      string     `json:"crisis_rule_id,omitempty"`
	RiskLevel         RiskLevel  `json:"risk_level"`
	PrimaryEmotion    Emotion    `json:"primary_emotion"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy        string     `json:"resolved_by,omitempty"`
}
