package service

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/knowledge"
)

func TestResponseComposer_UnmappedEmotionFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kb := knowledge.Default()
	c := NewResponseComposer(kb, FirstPicker{}, zap.New(core))

	plan := c.Compose(domain.EmotionalState{
		PrimaryEmotion: domain.EmotionNeutral,
		Context:        domain.Context("housing"),
		RiskLevel:      domain.RiskLow,
	}, "global")

	if plan.Message != kb.GenericMessage {
		t.Fatalf("expected generic message, got %q", plan.Message)
	}
	if len(plan.Resources) == 0 || plan.Resources[0] != kb.ContextResources[domain.ContextEmotional][0] {
		t.Fatalf("expected emotional resources fallback, got %+v", plan.Resources)
	}
	if len(plan.NextSteps) == 0 {
		t.Fatalf("expected fallback coping steps")
	}
	if logs.Len() < 2 {
		t.Fatalf("expected warnings for unmapped emotion and context, got %d", logs.Len())
	}
}

func TestResponseComposer_CrisisWithUnknownRuleUsesGlobal(t *testing.T) {
	kb := knowledge.Default()
	c := NewResponseComposer(kb, nil, nil)

	plan := c.Compose(domain.EmotionalState{RiskLevel: domain.RiskCrisis}, "eu")
	if plan.Message != kb.Crisis.Message {
		t.Fatalf("expected crisis template, got %q", plan.Message)
	}
	global := kb.CrisisResourcesFor(knowledge.LocaleGlobal)
	if len(plan.Resources) != len(global) || plan.Resources[0] != global[0] {
		t.Fatalf("expected global resources, got %+v", plan.Resources)
	}
	if !plan.EscalateToHuman {
		t.Fatalf("crisis must escalate")
	}
	if plan.CrisisResources[0] != kb.CrisisResources["eu"][0] {
		t.Fatalf("expected eu crisis resources, got %+v", plan.CrisisResources)
	}
}

func TestResponseComposer_NonEscalatingRuleStillEscalatesOnCrisis(t *testing.T) {
	kb := knowledge.Default()
	c := NewResponseComposer(kb, nil, nil)
	plan := c.Compose(domain.EmotionalState{RiskLevel: domain.RiskCrisis, CrisisRuleID: "severe_depression"}, "us")
	if !plan.EscalateToHuman {
		t.Fatalf("expected escalation for any crisis state")
	}
	if !strings.Contains(plan.Resources[0], "Mental Health America") {
		t.Fatalf("expected rule resources, got %+v", plan.Resources)
	}
}

func TestResponseComposer_CulturalContextAppends(t *testing.T) {
	kb := knowledge.Default()
	c := NewResponseComposer(kb, FirstPicker{}, nil)

	plan := c.Compose(domain.EmotionalState{
		PrimaryEmotion:  domain.EmotionAnxious,
		Context:         domain.ContextDivorce,
		CulturalContext: "religious_concerns",
		RiskLevel:       domain.RiskLow,
	}, "global")

	if !strings.HasPrefix(plan.Message, kb.TherapeuticResponses[domain.EmotionAnxious][0]) {
		t.Fatalf("expected anxious template first, got %q", plan.Message)
	}
	if !strings.Contains(plan.Message, "Religious and spiritual concerns") {
		t.Fatalf("expected cultural message appended, got %q", plan.Message)
	}
	if !containsString(plan.Resources, "Faith-based counseling") {
		t.Fatalf("expected cultural resources, got %+v", plan.Resources)
	}
	if !containsString(plan.RoomSuggestions, "spiritual-counseling") {
		t.Fatalf("expected cultural room, got %+v", plan.RoomSuggestions)
	}
	if plan.CrisisResources == nil || len(plan.CrisisResources) != 0 {
		t.Fatalf("expected empty crisis resources for low risk, got %+v", plan.CrisisResources)
	}
}

func TestSeededPicker_Reproducible(t *testing.T) {
	kb := knowledge.Default()
	state := domain.EmotionalState{PrimaryEmotion: domain.EmotionSad, Context: domain.ContextDivorce, RiskLevel: domain.RiskLow}

	a := NewResponseComposer(kb, NewSeededPicker(42), nil)
	b := NewResponseComposer(kb, NewSeededPicker(42), nil)
	for i := 0; i < 10; i++ {
		ma := a.Compose(state, "global").Message
		mb := b.Compose(state, "global").Message
		if ma != mb {
			t.Fatalf("same seed produced different messages at %d: %q vs %q", i, ma, mb)
		}
	}
}

func TestSeededPicker_InRange(t *testing.T) {
	p := NewSeededPicker(1)
	for i := 0; i < 100; i++ {
		if idx := p.Pick(3); idx < 0 || idx >= 3 {
			t.Fatalf("index out of range: %d", idx)
		}
	}
	if p.Pick(1) != 0 || p.Pick(0) != 0 {
		t.Fatalf("expected 0 for single or empty lists")
	}
}
