package domain

// ResponsePlan es la respuesta estructurada que arma el compositor. No se persiste.
type ResponsePlan struct {
	Message           string   `json:"message"`
	EmotionalSupport  string   `json:"emotional_support"`
	Resources         []string `json:"resources"`
	NextSteps         []string `json:"next_steps"`
	CrisisResources   []string `json:"crisis_resources"`
	FollowUpQuestions []string `json:"follow_up_questions"`
	RoomSuggestions   []string `json:"room_suggestions"`
	EscalateToHuman   bool     `json:"escalate_to_human"`
}
