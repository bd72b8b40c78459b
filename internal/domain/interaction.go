package domain

import "time"

// InteractionRecord es lo unico que sale del pipeline hacia auditoria.
// Nunca lleva el texto del mensaje, solo su hash.
type InteractionRecord struct {
	ID                string         `json:"id"`
	AnonymousUserHash string         `json:"anonymous_user_hash"`
	SessionHash       string         `json:"session_hash,omitempty"`
	MessageHash       string         `json:"message_hash"`
	Timestamp         time.Time      `json:"timestamp"`
	State             EmotionalState `json:"state"`
	CrisisDetected    bool           `json:"crisis_detected"`
	EscalateToHuman   bool           `json:"escalate_to_human"`
}
