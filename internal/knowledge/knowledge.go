package knowledge

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"divisafe-support/internal/domain"
)

// LocaleGlobal es la tabla de recursos de crisis por defecto.
const LocaleGlobal = "global"

// ErrInvalidKnowledge envuelve cualquier problema de validacion de tablas.
var ErrInvalidKnowledge = errors.New("invalid knowledge base")

// CulturalRule asocia keywords a una etiqueta cultural y su mensaje.
type CulturalRule struct {
	Tag       string   `yaml:"tag"`
	Keywords  []string `yaml:"keywords"`
	Message   string   `yaml:"message"`
	Resources []string `yaml:"resources"`
	Rooms     []string `yaml:"rooms"`
}

// Pattern es un patron emocional tipico del divorcio (ej: custody_anxiety).
type Pattern struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
}

// Thresholds son constantes de configuracion del resolver.
type Thresholds struct {
	Medium     float64 `yaml:"medium"`
	High       float64 `yaml:"high"`
	Saturation int     `yaml:"saturation"` // hits distintos para llegar a intensidad 1.0
}

// CrisisTemplate es la respuesta fija para el camino de crisis.
type CrisisTemplate struct {
	Message           string   `yaml:"message"`
	Support           string   `yaml:"support"`
	NextSteps         []string `yaml:"next_steps"`
	FollowUpQuestions []string `yaml:"follow_up_questions"`
	Rooms             []string `yaml:"rooms"`
}

// KnowledgeBase agrupa todas las tablas estaticas del pipeline.
// Se construye una vez al arrancar y se trata como solo lectura.
type KnowledgeBase struct {
	EmotionKeywords      map[domain.Emotion][]string `yaml:"emotion_keywords"`
	ContextKeywords      map[domain.Context][]string `yaml:"context_keywords"`
	CulturalRules        []CulturalRule              `yaml:"cultural_rules"`
	CrisisRules          []domain.CrisisRule         `yaml:"crisis_rules"`
	Patterns             []Pattern                   `yaml:"patterns"`
	TherapeuticResponses map[domain.Emotion][]string `yaml:"therapeutic_responses"`
	EmotionalSupport     map[domain.Emotion]string   `yaml:"emotional_support"`
	ContextResources     map[domain.Context][]string `yaml:"context_resources"`
	CopingStrategies     map[domain.Emotion][]string `yaml:"coping_strategies"`
	HighRiskSteps        []string                    `yaml:"high_risk_steps"`
	FollowUpQuestions    map[domain.Emotion][]string `yaml:"follow_up_questions"`
	RoomSuggestions      map[domain.Emotion][]string `yaml:"room_suggestions"`
	Crisis               CrisisTemplate              `yaml:"crisis"`
	CrisisResources      map[string][]string         `yaml:"crisis_resources"`
	Valence              map[domain.Emotion]float64  `yaml:"valence"`
	Arousal              map[domain.Emotion]float64  `yaml:"arousal"`
	Thresholds           Thresholds                  `yaml:"thresholds"`
	GenericMessage       string                      `yaml:"generic_message"`
	GenericSupport       string                      `yaml:"generic_support"`
	Rooms                []domain.Room               `yaml:"rooms"`
}

// LoadFile lee un YAML y lo superpone a las tablas por defecto.
// Los mapas se combinan por clave y las listas se reemplazan.
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return Parse(data)
}

// Parse decodifica un documento YAML sobre Default() y valida el resultado.
func Parse(data []byte) (*KnowledgeBase, error) {
	kb := Default()
	if err := yaml.Unmarshal(data, kb); err != nil {
		return nil, fmt.Errorf("decode knowledge yaml: %w", err)
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return kb, nil
}

// Validate verifica consistencia minima de las tablas.
func (kb *KnowledgeBase) Validate() error {
	if len(kb.CrisisRules) == 0 {
		return fmt.Errorf("%w: no crisis rules", ErrInvalidKnowledge)
	}
	seen := make(map[string]struct{}, len(kb.CrisisRules))
	for i, rule := range kb.CrisisRules {
		id := strings.TrimSpace(rule.ID)
		if id == "" {
			return fmt.Errorf("%w: crisis rule %d has no id", ErrInvalidKnowledge, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicated crisis rule %q", ErrInvalidKnowledge, id)
		}
		seen[id] = struct{}{}
		if len(rule.Triggers) == 0 {
			return fmt.Errorf("%w: crisis rule %q has no triggers", ErrInvalidKnowledge, id)
		}
		if rule.Severity != domain.SeverityHigh && rule.Severity != domain.SeverityCritical {
			return fmt.Errorf("%w: crisis rule %q has severity %q", ErrInvalidKnowledge, id, rule.Severity)
		}
	}

	for e := range kb.EmotionKeywords {
		if _, ok := domain.ParseEmotion(string(e)); !ok {
			return fmt.Errorf("%w: unknown emotion %q", ErrInvalidKnowledge, e)
		}
	}
	for c := range kb.ContextKeywords {
		if !isKnownContext(c) {
			return fmt.Errorf("%w: unknown context %q", ErrInvalidKnowledge, c)
		}
	}

	t := kb.Thresholds
	if t.Medium <= 0 || t.Medium > t.High || t.High > 1 {
		return fmt.Errorf("%w: thresholds must satisfy 0 < medium <= high <= 1", ErrInvalidKnowledge)
	}
	if t.Saturation <= 0 {
		return fmt.Errorf("%w: saturation must be positive", ErrInvalidKnowledge)
	}

	if len(kb.CrisisResources[LocaleGlobal]) == 0 {
		return fmt.Errorf("%w: missing %q crisis resources", ErrInvalidKnowledge, LocaleGlobal)
	}
	if strings.TrimSpace(kb.Crisis.Message) == "" || strings.TrimSpace(kb.GenericMessage) == "" {
		return fmt.Errorf("%w: crisis and generic messages are required", ErrInvalidKnowledge)
	}
	return nil
}

// CrisisRule busca una regla por id.
func (kb *KnowledgeBase) CrisisRule(id string) (domain.CrisisRule, bool) {
	for _, rule := range kb.CrisisRules {
		if rule.ID == id {
			return rule, true
		}
	}
	return domain.CrisisRule{}, false
}

// CrisisResourcesFor devuelve los contactos de crisis del locale; si no existe usa global.
func (kb *KnowledgeBase) CrisisResourcesFor(locale string) []string {
	key := strings.ToLower(strings.TrimSpace(locale))
	if res, ok := kb.CrisisResources[key]; ok && len(res) > 0 {
		return append([]string(nil), res...)
	}
	return append([]string(nil), kb.CrisisResources[LocaleGlobal]...)
}

// Locales lista los locales configurados.
func (kb *KnowledgeBase) Locales() []string {
	out := make([]string, 0, len(kb.CrisisResources))
	for k := range kb.CrisisResources {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isKnownContext(c domain.Context) bool {
	for _, known := range domain.ContextPrecedence {
		if c == known {
			return true
		}
	}
	return false
}
