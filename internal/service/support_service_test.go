package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/knowledge"
	"divisafe-support/internal/metrics"
)

type mockInteractionLogger struct {
	mu      sync.Mutex
	records []domain.InteractionRecord
	err     error
}

func (m *mockInteractionLogger) LogInteraction(_ context.Context, rec domain.InteractionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return m.err
}

func (m *mockInteractionLogger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type mockAlertSender struct {
	sent chan domain.Escalation
	err  error
}

func (m *mockAlertSender) SendEscalationAlert(_ context.Context, _ string, esc domain.Escalation) error {
	m.sent <- esc
	return m.err
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

func newTestSupportService(deps SupportDeps) *SupportService {
	kb := knowledge.Default()
	if deps.Anonymizer == nil {
		deps.Anonymizer = NewAnonymizer("test-key")
	}
	return NewSupportService(zap.NewNop(), kb, NewPipeline(kb, FirstPicker{}, zap.NewNop()), deps)
}

func TestSupportService_AnalyzeLogsAnonymizedRecord(t *testing.T) {
	logs := &mockInteractionLogger{}
	svc := newTestSupportService(SupportDeps{Interactions: logs})

	msg := "I feel so sad and alone since the divorce"
	out, err := svc.Analyze(context.Background(), AnalyzeInput{
		Message:     msg,
		UserContext: UserContext{AnonymousID: "anon-42", SessionID: "s-1"},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if out.State.PrimaryEmotion != domain.EmotionSad || out.CrisisDetected {
		t.Fatalf("unexpected analysis: %+v", out)
	}
	if len(out.Recommendations) == 0 {
		t.Fatalf("expected recommendations")
	}
	if logs.count() != 1 {
		t.Fatalf("expected 1 interaction record, got %d", logs.count())
	}
	rec := logs.records[0]
	if rec.AnonymousUserHash == "anon-42" || rec.SessionHash == "s-1" {
		t.Fatalf("ids must be hashed: %+v", rec)
	}
	if rec.MessageHash == "" || strings.Contains(rec.MessageHash, "sad") {
		t.Fatalf("unexpected message hash %q", rec.MessageHash)
	}
	if rec.ID == "" || rec.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp")
	}
}

func TestSupportService_CrisisEscalatesAndNotifies(t *testing.T) {
	logs := &mockInteractionLogger{}
	store := NewMemoryEscalationStore(time.Hour)
	sender := &mockAlertSender{sent: make(chan domain.Escalation, 1)}
	m := metrics.New()
	svc := newTestSupportService(SupportDeps{
		Interactions: logs,
		Escalations:  store,
		Notifier:     sender,
		NotifyTo:     "oncall@divisafe.test",
		Metrics:      m,
		Limiter:      denyLimiter{},
	})

	out, err := svc.Analyze(context.Background(), AnalyzeInput{
		Message:     "I don't see the point in living anymore",
		UserContext: UserContext{AnonymousID: "anon-1", Locale: "US"},
	})
	if err != nil {
		t.Fatalf("crisis messages must bypass rate limit: %v", err)
	}
	if !out.CrisisDetected || !out.EscalateToHuman || out.EscalationID == "" {
		t.Fatalf("expected escalation, got %+v", out)
	}
	if out.Plan.CrisisResources[0] != knowledge.Default().CrisisResources["us"][0] {
		t.Fatalf("expected us crisis resources, got %+v", out.Plan.CrisisResources)
	}

	esc, err := store.Get(context.Background(), out.EscalationID)
	if err != nil {
		t.Fatalf("get escalation: %v", err)
	}
	if esc.Priority != domain.PriorityEmergency || esc.CrisisRuleID != "suicidal_ideation" || esc.Reason != "crisis:suicidal" {
		t.Fatalf("unexpected escalation: %+v", esc)
	}

	select {
	case sent := <-sender.sent:
		if sent.ID != out.EscalationID {
			t.Fatalf("notified wrong escalation %s", sent.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected notification")
	}
}

func TestSupportService_RateLimitedNonCrisis(t *testing.T) {
	logs := &mockInteractionLogger{}
	svc := newTestSupportService(SupportDeps{Interactions: logs, Limiter: denyLimiter{}})

	_, err := svc.Analyze(context.Background(), AnalyzeInput{Message: "I'm worried about money"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if logs.count() != 0 {
		t.Fatalf("rate limited requests must not be logged")
	}
}

func TestSupportService_CancelledContextSkipsCommit(t *testing.T) {
	logs := &mockInteractionLogger{}
	store := NewMemoryEscalationStore(time.Hour)
	svc := newTestSupportService(SupportDeps{Interactions: logs, Escalations: store})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := svc.Analyze(ctx, AnalyzeInput{Message: "I want to end it all"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !out.CrisisDetected || out.Plan.Message == "" {
		t.Fatalf("expected plan even when cancelled: %+v", out)
	}
	if out.EscalationID != "" || logs.count() != 0 {
		t.Fatalf("nothing must be committed after cancellation")
	}
	pending, _ := store.ListPending(context.Background())
	if len(pending) != 0 {
		t.Fatalf("expected no escalations, got %d", len(pending))
	}
}

func TestSupportService_LoggerFailureDoesNotSurface(t *testing.T) {
	logs := &mockInteractionLogger{err: errors.New("db down")}
	svc := newTestSupportService(SupportDeps{Interactions: logs})
	if _, err := svc.Analyze(context.Background(), AnalyzeInput{Message: "hello"}); err != nil {
		t.Fatalf("logger failures must not surface: %v", err)
	}
}

func TestSupportService_HighRiskGetsMediumPriority(t *testing.T) {
	store := NewMemoryEscalationStore(time.Hour)
	svc := newTestSupportService(SupportDeps{Escalations: store})

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Message: "I'm sad, lonely, heartbroken, miserable and in tears"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	esc, err := svc.GetEscalation(context.Background(), out.EscalationID)
	if err != nil {
		t.Fatalf("get escalation: %v", err)
	}
	if esc.Priority != domain.PriorityMedium || esc.Reason != "high_risk" {
		t.Fatalf("unexpected escalation: %+v", esc)
	}

	resolved, err := svc.ResolveEscalation(context.Background(), esc.ID, "mod-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != domain.EscalationResolved {
		t.Fatalf("expected resolved, got %s", resolved.Status)
	}
}

func TestSupportService_GetCrisisResources(t *testing.T) {
	svc := newTestSupportService(SupportDeps{})
	kb := knowledge.Default()

	if got := svc.GetCrisisResources("india"); got[0] != kb.CrisisResources["india"][0] {
		t.Fatalf("unexpected india resources: %+v", got)
	}
	if got := svc.GetCrisisResources("atlantis"); got[0] != kb.CrisisResources[knowledge.LocaleGlobal][0] {
		t.Fatalf("expected global fallback, got %+v", got)
	}
	if len(svc.Locales()) != 4 {
		t.Fatalf("expected 4 locales, got %+v", svc.Locales())
	}
}

func TestSupportService_EscalationStoreMissing(t *testing.T) {
	svc := newTestSupportService(SupportDeps{})
	if _, err := svc.ListPendingEscalations(context.Background()); !errors.Is(err, ErrSupportServiceNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
	if _, err := svc.RecentInteractions(context.Background(), 10); !errors.Is(err, ErrSupportServiceNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestEscalationPriority(t *testing.T) {
	crisis := domain.EmotionalState{RiskLevel: domain.RiskCrisis}
	if p, _ := escalationPriority(crisis, &domain.CrisisRule{Severity: domain.SeverityHigh}); p != domain.PriorityHigh {
		t.Fatalf("expected high for non-critical rule, got %s", p)
	}
	if p, _ := escalationPriority(crisis, &domain.CrisisRule{Severity: domain.SeverityCritical}); p != domain.PriorityEmergency {
		t.Fatalf("expected emergency for critical rule, got %s", p)
	}
	if p, r := escalationPriority(crisis, nil); p != domain.PriorityHigh || r != "crisis_detected" {
		t.Fatalf("unexpected priority for unknown rule: %s %s", p, r)
	}
}

func TestSupportService_RateLimitKeyFallsBackToClientIP(t *testing.T) {
	svc := newTestSupportService(SupportDeps{Limiter: NewMemoryRateLimiter(time.Minute, 1)})
	ctx := context.Background()
	msg := "I'm worried about money"

	if _, err := svc.Analyze(ctx, AnalyzeInput{Message: msg, ClientIP: "10.0.0.1"}); err != nil {
		t.Fatalf("first anonymous client: %v", err)
	}
	if _, err := svc.Analyze(ctx, AnalyzeInput{Message: msg, ClientIP: "10.0.0.2"}); err != nil {
		t.Fatalf("second anonymous client must have its own bucket: %v", err)
	}
	if _, err := svc.Analyze(ctx, AnalyzeInput{Message: msg, ClientIP: "10.0.0.1"}); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited for repeated ip, got %v", err)
	}

	withID := UserContext{AnonymousID: "user-42"}
	if _, err := svc.Analyze(ctx, AnalyzeInput{Message: msg, UserContext: withID, ClientIP: "10.0.0.3"}); err != nil {
		t.Fatalf("identified user: %v", err)
	}
	if _, err := svc.Analyze(ctx, AnalyzeInput{Message: msg, UserContext: withID, ClientIP: "10.0.0.4"}); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("identified user must be limited by id regardless of ip, got %v", err)
	}
}
