package service

import (
	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/knowledge"
)

// Pipeline encadena extractor, detector, resolver y compositor.
// Es puro y seguro para uso concurrente: las tablas son de solo lectura.
type Pipeline struct {
	Extractor *SignalExtractor
	Detector  *CrisisDetector
	Resolver  *StateResolver
	Composer  *ResponseComposer
}

// Classification es la salida completa del pipeline para un mensaje.
type Classification struct {
	State          domain.EmotionalState
	Plan           domain.ResponsePlan
	CrisisDetected bool
	Rule           *domain.CrisisRule
}

func NewPipeline(kb *knowledge.KnowledgeBase, picker TemplatePicker, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Extractor: NewSignalExtractor(kb),
		Detector:  NewCrisisDetector(kb),
		Resolver:  NewStateResolver(kb),
		Composer:  NewResponseComposer(kb, picker, logger),
	}
}

// Classify corre el pipeline completo. Nunca devuelve un plan sin mensaje.
func (p *Pipeline) Classify(text, locale string) Classification {
	signals := p.Extractor.Extract(text)
	rule, crisis := p.Detector.MatchRule(text)
	state := p.Resolver.Resolve(signals, rule)
	return Classification{
		State:          state,
		Plan:           p.Composer.Compose(state, locale),
		CrisisDetected: crisis,
		Rule:           rule,
	}
}
