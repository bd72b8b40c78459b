package service

import (
	"strings"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/knowledge"
)

// Signals son los conteos crudos que salen del extractor.
// Cada keyword cuenta una sola vez aunque se repita en el texto.
type Signals struct {
	EmotionHits     map[domain.Emotion]int
	ContextHits     map[domain.Context]int
	CulturalContext string
	Patterns        []string
}

// TotalEmotionHits suma los hits distintos de todas las emociones.
func (s Signals) TotalEmotionHits() int {
	total := 0
	for _, n := range s.EmotionHits {
		total += n
	}
	return total
}

type culturalMatcher struct {
	tag      string
	keywords []string
}

type patternMatcher struct {
	name     string
	triggers []string
}

// SignalExtractor busca keywords de emocion, tema, cultura y patrones en el texto.
type SignalExtractor struct {
	emotions map[domain.Emotion][]string
	contexts map[domain.Context][]string
	cultural []culturalMatcher
	patterns []patternMatcher
}

// NewSignalExtractor precompila las listas en minusculas.
func NewSignalExtractor(kb *knowledge.KnowledgeBase) *SignalExtractor {
	e := &SignalExtractor{
		emotions: make(map[domain.Emotion][]string, len(kb.EmotionKeywords)),
		contexts: make(map[domain.Context][]string, len(kb.ContextKeywords)),
	}
	for emotion, words := range kb.EmotionKeywords {
		e.emotions[emotion] = normalizeKeywords(words)
	}
	for ctx, words := range kb.ContextKeywords {
		e.contexts[ctx] = normalizeKeywords(words)
	}
	for _, rule := range kb.CulturalRules {
		e.cultural = append(e.cultural, culturalMatcher{tag: rule.Tag, keywords: normalizeKeywords(rule.Keywords)})
	}
	for _, p := range kb.Patterns {
		e.patterns = append(e.patterns, patternMatcher{name: p.Name, triggers: normalizeKeywords(p.Triggers)})
	}
	return e
}

// Extract cuenta keywords distintas por categoria. Texto vacio devuelve todo en cero.
func (e *SignalExtractor) Extract(text string) Signals {
	l := normalizeText(text)
	out := Signals{
		EmotionHits: make(map[domain.Emotion]int, len(e.emotions)),
		ContextHits: make(map[domain.Context]int, len(e.contexts)),
	}
	if l == "" {
		return out
	}

	for emotion, words := range e.emotions {
		if n := countDistinct(l, words); n > 0 {
			out.EmotionHits[emotion] = n
		}
	}
	for ctx, words := range e.contexts {
		if n := countDistinct(l, words); n > 0 {
			out.ContextHits[ctx] = n
		}
	}
	for _, c := range e.cultural {
		if containsAny(l, c.keywords) {
			out.CulturalContext = c.tag
			break
		}
	}
	for _, p := range e.patterns {
		if containsAny(l, p.triggers) {
			out.Patterns = append(out.Patterns, p.name)
		}
	}
	return out
}

var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

func normalizeText(s string) string {
	return apostropheReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func normalizeKeywords(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		n := normalizeText(w)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func countDistinct(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
