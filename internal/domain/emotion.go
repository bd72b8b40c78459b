package domain

import "strings"

// Emotion es la categoria emocional asignada a un mensaje.
type Emotion string

const (
	EmotionSad         Emotion = "sad"
	EmotionAngry       Emotion = "angry"
	EmotionAnxious     Emotion = "anxious"
	EmotionHopeful     Emotion = "hopeful"
	EmotionOverwhelmed Emotion = "overwhelmed"
	EmotionConfused    Emotion = "confused"
	EmotionRelieved    Emotion = "relieved"
	EmotionNeutral     Emotion = "neutral"
)

// EmotionPrecedence fija el desempate entre categorias con igual conteo.
// Las emociones negativas van primero.
var EmotionPrecedence = []Emotion{
	EmotionSad,
	EmotionAngry,
	EmotionAnxious,
	EmotionOverwhelmed,
	EmotionHopeful,
	EmotionRelieved,
	EmotionConfused,
}

// DefaultEmotion se usa cuando ningun keyword coincide.
const DefaultEmotion = EmotionConfused

// ParseEmotion normaliza un string a Emotion. Devuelve false si no pertenece al enum.
func ParseEmotion(s string) (Emotion, bool) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	switch e {
	case EmotionSad, EmotionAngry, EmotionAnxious, EmotionHopeful,
		EmotionOverwhelmed, EmotionConfused, EmotionRelieved, EmotionNeutral:
		return e, true
	}
	return "", false
}

// Context es el tema del mensaje (divorcio, custodia, etc).
type Context string

const (
	ContextDivorce   Context = "divorce"
	ContextCustody   Context = "custody"
	ContextFinancial Context = "financial"
	ContextLegal     Context = "legal"
	ContextEmotional Context = "emotional"
	ContextRecovery  Context = "recovery"
)

// ContextPrecedence: los temas concretos ganan a los genericos en caso de empate.
var ContextPrecedence = []Context{
	ContextCustody,
	ContextLegal,
	ContextFinancial,
	ContextDivorce,
	ContextRecovery,
	ContextEmotional,
}

const DefaultContext = ContextEmotional

// RiskLevel clasifica el riesgo del mensaje.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
	RiskCrisis RiskLevel = "crisis"
)

// EmotionalState es el resultado inmutable de clasificar un mensaje.
// RiskLevel == RiskCrisis si y solo si CrisisRuleID no esta vacio.
type EmotionalState struct {
	PrimaryEmotion   Emotion   `json:"primary_emotion"`
	SecondaryEmotion Emotion   `json:"secondary_emotion,omitempty"`
	Intensity        float64   `json:"intensity"` // 0.0 - 1.0
	Valence          float64   `json:"valence"`   // -1 a 1
	Arousal          float64   `json:"arousal"`   // 0 a 1
	Confidence       float64   `json:"confidence"`
	Context          Context   `json:"context"`
	CulturalContext  string    `json:"cultural_context,omitempty"`
	Patterns         []string  `json:"patterns,omitempty"`
	RiskLevel        RiskLevel `json:"risk_level"`
	CrisisRuleID     string    `json:"crisis_rule_id,omitempty"`
}

// IsCrisis indica si el estado requiere la respuesta de crisis.
func (s EmotionalState) IsCrisis() bool {
	return s.RiskLevel == RiskCrisis
}
