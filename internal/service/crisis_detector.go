package service

import (
	"strings"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/knowledge"
)

// CrisisDetector revisa frases de autolesion, ideacion suicida y violencia.
// No intenta desambiguar intencion: cualquier coincidencia marca crisis.
type CrisisDetector struct {
	rules    []domain.CrisisRule
	triggers [][]string
}

func NewCrisisDetector(kb *knowledge.KnowledgeBase) *CrisisDetector {
	d := &CrisisDetector{
		rules:    make([]domain.CrisisRule, len(kb.CrisisRules)),
		triggers: make([][]string, len(kb.CrisisRules)),
	}
	copy(d.rules, kb.CrisisRules)
	for i, rule := range kb.CrisisRules {
		d.triggers[i] = normalizeKeywords(rule.Triggers)
	}
	return d
}

// DetectCrisis indica si alguna frase de crisis aparece en el texto.
func (d *CrisisDetector) DetectCrisis(text string) bool {
	_, ok := d.MatchRule(text)
	return ok
}

// MatchRule devuelve la primera regla (en orden de tabla) con algun trigger presente.
func (d *CrisisDetector) MatchRule(text string) (*domain.CrisisRule, bool) {
	l := normalizeText(text)
	if strings.TrimSpace(l) == "" {
		return nil, false
	}
	for i, triggers := range d.triggers {
		if containsAny(l, triggers) {
			rule := d.rules[i]
			return &rule, true
		}
	}
	return nil, false
}
