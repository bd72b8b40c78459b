package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"divisafe-support/internal/domain"
)

func TestDisabledSender(t *testing.T) {
	err := NewDisabledSender("smtp not configured").SendEscalationAlert(context.Background(), "a@b.c", domain.Escalation{})
	if err == nil || err.Error() != "smtp not configured" {
		t.Fatalf("expected configured reason, got %v", err)
	}
	if err := NewDisabledSender("").SendEscalationAlert(context.Background(), "a@b.c", domain.Escalation{}); err == nil {
		t.Fatalf("expected error from disabled sender")
	}
}

func TestBuildEscalationMessage(t *testing.T) {
	esc := domain.Escalation{
		ID:                "esc-1",
		AnonymousUserHash: "abc123",
		Reason:            "crisis_detected",
		Priority:          domain.PriorityEmergency,
		CrisisRuleID:      "self_harm",
		RiskLevel:         domain.RiskCrisis,
		PrimaryEmotion:    domain.EmotionSad,
		CreatedAt:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	msg := buildMessage("alerts@divisafe.test", "DivySafe Alerts", "oncall@divisafe.test", escalationSubject(esc), escalationBody(esc))

	for _, want := range []string{
		"From: DivySafe Alerts <alerts@divisafe.test>",
		"To: oncall@divisafe.test",
		"Subject: [EMERGENCY] Escalation esc-1",
		"Crisis rule: self_harm",
		"Anonymous user: abc123",
		"Created at: 2025-03-01T12:00:00Z UTC",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in message:\n%s", want, msg)
		}
	}
	if !strings.Contains(msg, "\r\n\r\n") {
		t.Fatalf("expected header/body separator")
	}
}

func TestNewSMTPSender_Validation(t *testing.T) {
	if _, err := NewSMTPSender("", 0, "", "", "from@test", "", false); err == nil {
		t.Fatalf("expected host validation error")
	}
	if _, err := NewSMTPSender("smtp.test", 0, "", "", "", "", false); err == nil {
		t.Fatalf("expected from validation error")
	}
	s, err := NewSMTPSender("smtp.test", 0, "", "", "from@test", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.port != 587 {
		t.Fatalf("expected default port 587, got %d", s.port)
	}
}
