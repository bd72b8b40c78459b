package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"divisafe-support/internal/domain"
)

// Sender define la interfaz para avisar escalaciones al equipo de guardia.
type Sender interface {
	SendEscalationAlert(ctx context.Context, toEmail string, esc domain.Escalation) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendEscalationAlert(_ context.Context, _ string, _ domain.Escalation) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

// escalationSubject y escalationBody solo usan campos anonimizados.
func escalationSubject(esc domain.Escalation) string {
	return fmt.Sprintf("[%s] Escalation %s", strings.ToUpper(esc.Priority), esc.ID)
}

func escalationBody(esc domain.Escalation) string {
	var sb strings.Builder
	sb.WriteString("A conversation needs a human counselor.\n\n")
	fmt.Fprintf(&sb, "Escalation: %s\n", esc.ID)
	fmt.Fprintf(&sb, "Priority: %s\n", esc.Priority)
	fmt.Fprintf(&sb, "Reason: %s\n", esc.Reason)
	if esc.CrisisRuleID != "" {
		fmt.Fprintf(&sb, "Crisis rule: %s\n", esc.CrisisRuleID)
	}
	fmt.Fprintf(&sb, "Risk level: %s\n", esc.RiskLevel)
	fmt.Fprintf(&sb, "Primary emotion: %s\n", esc.PrimaryEmotion)
	fmt.Fprintf(&sb, "Anonymous user: %s\n", esc.AnonymousUserHash)
	fmt.Fprintf(&sb, "Created at: %s UTC\n", esc.CreatedAt.UTC().Format(time.RFC3339))
	return sb.String()
}
