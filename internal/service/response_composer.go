package service

import (
	"math/rand"
	"strings"
	"sync"

	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/knowledge"
)

// TemplatePicker elige el indice de plantilla dentro de una lista de n elementos (n > 0).
type TemplatePicker interface {
	Pick(n int) int
}

// FirstPicker siempre devuelve la primera plantilla.
type FirstPicker struct{}

func (FirstPicker) Pick(int) int { return 0 }

// SeededPicker elige al azar pero reproducible con la misma semilla.
type SeededPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSeededPicker(seed int64) *SeededPicker {
	return &SeededPicker{rnd: rand.New(rand.NewSource(seed))}
}

func (p *SeededPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n)
}

// ResponseComposer traduce un EmotionalState a un ResponsePlan.
// Nunca falla: cualquier hueco en las tablas cae al mensaje generico.
type ResponseComposer struct {
	kb       *knowledge.KnowledgeBase
	cultural map[string]knowledge.CulturalRule
	picker   TemplatePicker
	logger   *zap.Logger
}

func NewResponseComposer(kb *knowledge.KnowledgeBase, picker TemplatePicker, logger *zap.Logger) *ResponseComposer {
	if picker == nil {
		picker = FirstPicker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cultural := make(map[string]knowledge.CulturalRule, len(kb.CulturalRules))
	for _, rule := range kb.CulturalRules {
		cultural[rule.Tag] = rule
	}
	return &ResponseComposer{
		kb:       kb,
		cultural: cultural,
		picker:   picker,
		logger:   logger,
	}
}

// Compose arma el plan de respuesta. locale solo afecta a los recursos de crisis.
func (c *ResponseComposer) Compose(state domain.EmotionalState, locale string) domain.ResponsePlan {
	if state.IsCrisis() {
		return c.composeCrisis(state, locale)
	}

	plan := domain.ResponsePlan{
		Message:          c.pickMessage(state.PrimaryEmotion),
		EmotionalSupport: c.kb.EmotionalSupport[state.PrimaryEmotion],
		Resources:        c.contextResources(state.Context),
		NextSteps:        c.copingSteps(state.PrimaryEmotion),
	}
	if strings.TrimSpace(plan.EmotionalSupport) == "" {
		plan.EmotionalSupport = c.kb.GenericSupport
	}

	rooms := append([]string(nil), c.kb.RoomSuggestions[state.PrimaryEmotion]...)
	if rule, ok := c.cultural[state.CulturalContext]; ok && state.CulturalContext != "" {
		plan.Message = plan.Message + " " + rule.Message
		plan.Resources = append(plan.Resources, rule.Resources...)
		rooms = append(rooms, rule.Rooms...)
	}
	plan.RoomSuggestions = dedupe(rooms)
	plan.FollowUpQuestions = append([]string(nil), c.kb.FollowUpQuestions[state.PrimaryEmotion]...)

	if state.RiskLevel == domain.RiskHigh {
		plan.NextSteps = append(append([]string(nil), c.kb.HighRiskSteps...), plan.NextSteps...)
		plan.CrisisResources = c.kb.CrisisResourcesFor(locale)
		plan.EscalateToHuman = true
	}
	if plan.CrisisResources == nil {
		plan.CrisisResources = []string{}
	}
	return plan
}

func (c *ResponseComposer) composeCrisis(state domain.EmotionalState, locale string) domain.ResponsePlan {
	var resources []string
	if rule, ok := c.kb.CrisisRule(state.CrisisRuleID); ok && len(rule.Resources) > 0 {
		resources = append(resources, rule.Resources...)
	} else {
		c.logger.Warn("crisis state without known rule, using global resources",
			zap.String("crisis_rule_id", state.CrisisRuleID))
		resources = c.kb.CrisisResourcesFor(knowledge.LocaleGlobal)
	}
	return domain.ResponsePlan{
		Message:           c.kb.Crisis.Message,
		EmotionalSupport:  c.kb.Crisis.Support,
		Resources:         resources,
		NextSteps:         append([]string(nil), c.kb.Crisis.NextSteps...),
		CrisisResources:   c.kb.CrisisResourcesFor(locale),
		FollowUpQuestions: append([]string(nil), c.kb.Crisis.FollowUpQuestions...),
		RoomSuggestions:   append([]string(nil), c.kb.Crisis.Rooms...),
		EscalateToHuman:   true,
	}
}

func (c *ResponseComposer) pickMessage(emotion domain.Emotion) string {
	templates := c.kb.TherapeuticResponses[emotion]
	if len(templates) == 0 {
		c.logger.Warn("no therapeutic response for emotion, using generic message",
			zap.String("emotion", string(emotion)))
		return c.kb.GenericMessage
	}
	idx := c.picker.Pick(len(templates))
	if idx < 0 || idx >= len(templates) {
		idx = 0
	}
	msg := strings.TrimSpace(templates[idx])
	if msg == "" {
		return c.kb.GenericMessage
	}
	return msg
}

func (c *ResponseComposer) contextResources(ctx domain.Context) []string {
	if res, ok := c.kb.ContextResources[ctx]; ok && len(res) > 0 {
		return append([]string(nil), res...)
	}
	c.logger.Warn("no resources for context, falling back to emotional",
		zap.String("context", string(ctx)))
	return append([]string(nil), c.kb.ContextResources[domain.ContextEmotional]...)
}

func (c *ResponseComposer) copingSteps(emotion domain.Emotion) []string {
	if steps, ok := c.kb.CopingStrategies[emotion]; ok && len(steps) > 0 {
		return append([]string(nil), steps...)
	}
	return append([]string(nil), c.kb.CopingStrategies[domain.EmotionConfused]...)
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
