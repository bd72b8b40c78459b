package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/repository"
)

// InteractionLogger recibe el registro anonimizado de cada analisis.
type InteractionLogger interface {
	LogInteraction(ctx context.Context, rec domain.InteractionRecord) error
}

type zapInteractionLogger struct {
	logger *zap.Logger
}

// NewZapInteractionLogger escribe el registro como log estructurado.
func NewZapInteractionLogger(logger *zap.Logger) InteractionLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapInteractionLogger{logger: logger}
}

func (l *zapInteractionLogger) LogInteraction(_ context.Context, rec domain.InteractionRecord) error {
	l.logger.Info("interaction",
		zap.String("interaction_id", rec.ID),
		zap.String("user_hash", rec.AnonymousUserHash),
		zap.String("session_hash", rec.SessionHash),
		zap.String("message_hash", rec.MessageHash),
		zap.String("primary_emotion", string(rec.State.PrimaryEmotion)),
		zap.String("context", string(rec.State.Context)),
		zap.String("risk_level", string(rec.State.RiskLevel)),
		zap.Float64("intensity", rec.State.Intensity),
		zap.Bool("crisis_detected", rec.CrisisDetected),
		zap.Bool("escalate_to_human", rec.EscalateToHuman),
		zap.Time("timestamp", rec.Timestamp),
	)
	return nil
}

type repositoryInteractionLogger struct {
	repo repository.InteractionRepository
}

// NewRepositoryInteractionLogger persiste los registros en Postgres.
func NewRepositoryInteractionLogger(repo repository.InteractionRepository) InteractionLogger {
	return &repositoryInteractionLogger{repo: repo}
}

func (l *repositoryInteractionLogger) LogInteraction(ctx context.Context, rec domain.InteractionRecord) error {
	return l.repo.Create(ctx, rec)
}

type multiInteractionLogger []InteractionLogger

// MultiInteractionLogger reparte el registro a todos los sinks y junta los errores.
func MultiInteractionLogger(loggers ...InteractionLogger) InteractionLogger {
	var out multiInteractionLogger
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m multiInteractionLogger) LogInteraction(ctx context.Context, rec domain.InteractionRecord) error {
	var errs []error
	for _, l := range m {
		if err := l.LogInteraction(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
