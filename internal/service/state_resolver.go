package service

import (
	"math"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/knowledge"
)

// StateResolver combina los conteos del extractor con el resultado del detector de crisis.
type StateResolver struct {
	valence    map[domain.Emotion]float64
	arousal    map[domain.Emotion]float64
	thresholds knowledge.Thresholds
}

func NewStateResolver(kb *knowledge.KnowledgeBase) *StateResolver {
	return &StateResolver{
		valence:    kb.Valence,
		arousal:    kb.Arousal,
		thresholds: kb.Thresholds,
	}
}

// Resolve arma el EmotionalState. rule != nil fuerza riesgo crisis.
func (r *StateResolver) Resolve(signals Signals, rule *domain.CrisisRule) domain.EmotionalState {
	primary, primaryHits := argmaxEmotion(signals.EmotionHits, "")
	secondary, _ := argmaxEmotion(signals.EmotionHits, primary)
	total := signals.TotalEmotionHits()

	intensity := r.Intensity(total)
	state := domain.EmotionalState{
		PrimaryEmotion:   primary,
		SecondaryEmotion: secondary,
		Intensity:        intensity,
		Valence:          r.valence[primary],
		Arousal:          r.arousal[primary],
		Context:          argmaxContext(signals.ContextHits),
		CulturalContext:  signals.CulturalContext,
		Patterns:         append([]string(nil), signals.Patterns...),
		RiskLevel:        r.riskFor(intensity),
	}
	if total > 0 {
		state.Confidence = roundTo(float64(primaryHits)/float64(total), 2)
	}
	if rule != nil {
		state.RiskLevel = domain.RiskCrisis
		state.CrisisRuleID = rule.ID
	}
	return state
}

// Intensity escala hits distintos a 0..1 y satura en Thresholds.Saturation.
func (r *StateResolver) Intensity(totalHits int) float64 {
	if totalHits <= 0 {
		return 0
	}
	sat := r.thresholds.Saturation
	if sat <= 0 {
		sat = 1
	}
	return roundTo(math.Min(float64(totalHits)/float64(sat), 1), 2)
}

func (r *StateResolver) riskFor(intensity float64) domain.RiskLevel {
	switch {
	case intensity >= r.thresholds.High:
		return domain.RiskHigh
	case intensity >= r.thresholds.Medium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// argmaxEmotion recorre EmotionPrecedence, asi el empate lo gana la primera de la lista.
// Sin hits devuelve DefaultEmotion cuando skip es vacio, o "" para la secundaria.
func argmaxEmotion(hits map[domain.Emotion]int, skip domain.Emotion) (domain.Emotion, int) {
	var best domain.Emotion
	bestHits := 0
	for _, e := range domain.EmotionPrecedence {
		if e == skip {
			continue
		}
		if n := hits[e]; n > bestHits {
			best, bestHits = e, n
		}
	}
	if bestHits == 0 && skip == "" {
		return domain.DefaultEmotion, 0
	}
	return best, bestHits
}

func argmaxContext(hits map[domain.Context]int) domain.Context {
	best := domain.DefaultContext
	bestHits := 0
	for _, c := range domain.ContextPrecedence {
		if n := hits[c]; n > bestHits {
			best, bestHits = c, n
		}
	}
	return best
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
