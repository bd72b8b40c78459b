package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/email"
	"divisafe-support/internal/knowledge"
	"divisafe-support/internal/metrics"
	"divisafe-support/internal/repository"
)

var ErrSupportServiceNotConfigured = errors.New("support service not configured")

// UserContext llega desde el cliente; los ids se hashean antes de salir del servicio.
type UserContext struct {
	AnonymousID string `json:"anonymous_id"`
	SessionID   string `json:"session_id"`
	Locale      string `json:"locale"`
	RoomType    string `json:"room_type"`
}

type AnalyzeInput struct {
	Message     string
	UserContext UserContext

	// ClientIP separa el rate limit de clientes sin anonymous_id.
	ClientIP string
}

// Analysis es el resultado expuesto por el endpoint de analisis.
type Analysis struct {
	State           domain.EmotionalState `json:"emotional_state"`
	Plan            domain.ResponsePlan   `json:"response"`
	CrisisDetected  bool                  `json:"crisis_detected"`
	EscalateToHuman bool                  `json:"escalate_to_human"`
	Recommendations []string              `json:"recommendations"`
	EscalationID    string                `json:"escalation_id,omitempty"`
}

// SupportDeps agrupa los colaboradores opcionales del SupportService.
type SupportDeps struct {
	Interactions  InteractionLogger
	History       repository.InteractionRepository
	Escalations   EscalationStore
	Limiter       RateLimiter
	Notifier      email.Sender
	NotifyTo      string
	Metrics       *metrics.Metrics
	Anonymizer    *Anonymizer
	DefaultLocale string
	NotifyTimeout time.Duration
}

// SupportService orquesta el pipeline y los efectos posteriores (log, escalacion, aviso).
type SupportService struct {
	logger   *zap.Logger
	kb       *knowledge.KnowledgeBase
	pipeline *Pipeline
	deps     SupportDeps
}

func NewSupportService(logger *zap.Logger, kb *knowledge.KnowledgeBase, pipeline *Pipeline, deps SupportDeps) *SupportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Anonymizer == nil {
		deps.Anonymizer = NewAnonymizer("")
	}
	if strings.TrimSpace(deps.DefaultLocale) == "" {
		deps.DefaultLocale = knowledge.LocaleGlobal
	}
	if deps.NotifyTimeout <= 0 {
		deps.NotifyTimeout = 10 * time.Second
	}
	return &SupportService{
		logger:   logger,
		kb:       kb,
		pipeline: pipeline,
		deps:     deps,
	}
}

// Analyze clasifica un mensaje. Los mensajes de crisis nunca se frenan por rate limit.
// Si ctx ya esta cancelado devuelve el analisis pero no registra nada.
func (s *SupportService) Analyze(ctx context.Context, in AnalyzeInput) (Analysis, error) {
	if s == nil || s.pipeline == nil {
		return Analysis{}, ErrSupportServiceNotConfigured
	}
	start := time.Now()
	locale := s.locale(in.UserContext.Locale)
	userHash := s.deps.Anonymizer.HashID(in.UserContext.AnonymousID)

	out := s.pipeline.Classify(in.Message, locale)
	s.deps.Metrics.ObserveAnalysis(string(out.State.RiskLevel), string(out.State.PrimaryEmotion), time.Since(start))

	if !out.CrisisDetected && s.deps.Limiter != nil && !s.deps.Limiter.Allow(s.limiterKey(in, userHash)) {
		s.deps.Metrics.ObserveRateLimited()
		return Analysis{}, ErrRateLimited
	}

	analysis := Analysis{
		State:           out.State,
		Plan:            out.Plan,
		CrisisDetected:  out.CrisisDetected,
		EscalateToHuman: out.Plan.EscalateToHuman,
		Recommendations: append([]string(nil), out.Plan.NextSteps...),
	}

	if out.CrisisDetected {
		s.deps.Metrics.ObserveCrisis(out.State.CrisisRuleID)
		s.logger.Warn("crisis detected",
			zap.String("user_hash", userHash),
			zap.String("crisis_rule_id", out.State.CrisisRuleID),
		)
	}

	if err := ctx.Err(); err != nil {
		s.logger.Info("analysis discarded before commit", zap.String("user_hash", userHash), zap.Error(err))
		return analysis, nil
	}

	rec := domain.InteractionRecord{
		ID:                uuid.NewString(),
		AnonymousUserHash: userHash,
		MessageHash:       s.deps.Anonymizer.HashMessage(in.Message),
		Timestamp:         time.Now().UTC(),
		State:             out.State,
		CrisisDetected:    out.CrisisDetected,
		EscalateToHuman:   out.Plan.EscalateToHuman,
	}
	if strings.TrimSpace(in.UserContext.SessionID) != "" {
		rec.SessionHash = s.deps.Anonymizer.HashID(in.UserContext.SessionID)
	}
	if s.deps.Interactions != nil {
		if err := s.deps.Interactions.LogInteraction(ctx, rec); err != nil {
			s.logger.Warn("interaction log failed", zap.String("interaction_id", rec.ID), zap.Error(err))
		}
	}

	if out.Plan.EscalateToHuman {
		analysis.EscalationID = s.escalate(ctx, rec, out.Rule)
	}
	return analysis, nil
}

// GetCrisisResources devuelve los contactos del locale; locales desconocidos caen en global.
func (s *SupportService) GetCrisisResources(locale string) []string {
	return s.kb.CrisisResourcesFor(locale)
}

// Locales lista los locales con recursos de crisis.
func (s *SupportService) Locales() []string {
	return s.kb.Locales()
}

// Rooms devuelve el catalogo de salas.
func (s *SupportService) Rooms() []domain.Room {
	return append([]domain.Room(nil), s.kb.Rooms...)
}

// ListPendingEscalations alimenta el panel de moderacion.
func (s *SupportService) ListPendingEscalations(ctx context.Context) ([]domain.Escalation, error) {
	if s.deps.Escalations == nil {
		return nil, ErrSupportServiceNotConfigured
	}
	return s.deps.Escalations.ListPending(ctx)
}

func (s *SupportService) GetEscalation(ctx context.Context, id string) (domain.Escalation, error) {
	if s.deps.Escalations == nil {
		return domain.Escalation{}, ErrSupportServiceNotConfigured
	}
	return s.deps.Escalations.Get(ctx, strings.TrimSpace(id))
}

func (s *SupportService) ResolveEscalation(ctx context.Context, id, moderatorID string) (domain.Escalation, error) {
	if s.deps.Escalations == nil {
		return domain.Escalation{}, ErrSupportServiceNotConfigured
	}
	esc, err := s.deps.Escalations.Resolve(ctx, strings.TrimSpace(id), moderatorID)
	if err != nil {
		return domain.Escalation{}, err
	}
	s.logger.Info("escalation resolved", zap.String("escalation_id", esc.ID), zap.String("moderator_id", moderatorID))
	return esc, nil
}

// RecentInteractions lista registros anonimizados si hay repositorio configurado.
func (s *SupportService) RecentInteractions(ctx context.Context, limit int) ([]domain.InteractionRecord, error) {
	if s.deps.History == nil {
		return nil, ErrSupportServiceNotConfigured
	}
	return s.deps.History.ListRecent(ctx, limit)
}

func (s *SupportService) escalate(ctx context.Context, rec domain.InteractionRecord, rule *domain.CrisisRule) string {
	priority, reason := escalationPriority(rec.State, rule)
	esc := domain.Escalation{
		ID:                uuid.NewString(),
		AnonymousUserHash: rec.AnonymousUserHash,
		SessionHash:       rec.SessionHash,
		Reason:            reason,
		Priority:          priority,
		CrisisRuleID:      rec.State.CrisisRuleID,
		RiskLevel:         rec.State.RiskLevel,
		PrimaryEmotion:    rec.State.PrimaryEmotion,
		Status:            domain.EscalationPending,
		CreatedAt:         rec.Timestamp,
	}

	s.deps.Metrics.ObserveEscalation(esc.Priority)
	s.logger.Warn("escalating to human",
		zap.String("escalation_id", esc.ID),
		zap.String("user_hash", esc.AnonymousUserHash),
		zap.String("priority", esc.Priority),
		zap.String("reason", esc.Reason),
	)

	if s.deps.Escalations != nil {
		if err := s.deps.Escalations.Create(ctx, esc); err != nil {
			s.logger.Error("escalation store failed", zap.String("escalation_id", esc.ID), zap.Error(err))
		}
	}
	if s.deps.Notifier != nil && strings.TrimSpace(s.deps.NotifyTo) != "" {
		go s.notify(context.WithoutCancel(ctx), esc)
	}
	return esc.ID
}

func (s *SupportService) notify(ctx context.Context, esc domain.Escalation) {
	ctx, cancel := context.WithTimeout(ctx, s.deps.NotifyTimeout)
	defer cancel()
	if err := s.deps.Notifier.SendEscalationAlert(ctx, s.deps.NotifyTo, esc); err != nil {
		s.logger.Warn("escalation notification failed", zap.String("escalation_id", esc.ID), zap.Error(err))
	}
}

// escalationPriority: critica -> emergency, otras crisis -> high, riesgo alto -> medium.
func escalationPriority(state domain.EmotionalState, rule *domain.CrisisRule) (string, string) {
	if state.IsCrisis() {
		reason := "crisis_detected"
		if rule != nil && rule.CrisisType != "" {
			reason = "crisis:" + rule.CrisisType
		}
		if rule != nil && (rule.Severity == domain.SeverityCritical || rule.EscalateToHuman) {
			return domain.PriorityEmergency, reason
		}
		return domain.PriorityHigh, reason
	}
	return domain.PriorityMedium, "high_risk"
}

// limiterKey usa el hash del usuario; sin anonymous_id cae en el hash de la IP.
func (s *SupportService) limiterKey(in AnalyzeInput, userHash string) string {
	if strings.TrimSpace(in.UserContext.AnonymousID) != "" {
		return userHash
	}
	if ip := strings.TrimSpace(in.ClientIP); ip != "" {
		return s.deps.Anonymizer.HashID("ip:" + ip)
	}
	return userHash
}

func (s *SupportService) locale(requested string) string {
	l := strings.ToLower(strings.TrimSpace(requested))
	if l == "" {
		return s.deps.DefaultLocale
	}
	return l
}
