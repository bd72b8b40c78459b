package service

import (
	"fmt"
	"strings"

	"divisafe-support/internal/domain"
)

// CompanionSystemPrompt es la identidad fija del companero de soporte.
const CompanionSystemPrompt = `You are an AI emotional support companion for people going through divorce. You provide empathetic, supportive responses while being mindful of:

1. Emotional validation and understanding
2. Crisis detection (if someone mentions self-harm, provide crisis resources)
3. Practical divorce-related guidance
4. Cultural sensitivity
5. Encouraging professional help when needed

Keep responses warm, supportive, and helpful. If you detect any crisis indicators, immediately provide crisis hotline numbers.`

// maxHistoryMessages limita cuanto historial se reenvia al LLM.
const maxHistoryMessages = 20

// SupportPromptBuilder arma la conversacion que se envia al LLM.
type SupportPromptBuilder struct{}

// BuildPlanInstruction convierte el plan del compositor en una instruccion de sistema.
func (SupportPromptBuilder) BuildPlanInstruction(state domain.EmotionalState, plan domain.ResponsePlan) string {
	var sb strings.Builder

	sb.WriteString("=== EMOTIONAL CONTEXT ===\n")
	sb.WriteString(fmt.Sprintf("Primary emotion: %s (intensity %.2f)\n", state.PrimaryEmotion, state.Intensity))
	if state.SecondaryEmotion != "" {
		sb.WriteString(fmt.Sprintf("Secondary emotion: %s\n", state.SecondaryEmotion))
	}
	sb.WriteString(fmt.Sprintf("Topic: %s\n", state.Context))
	if state.CulturalContext != "" {
		sb.WriteString(fmt.Sprintf("Cultural context: %s\n", strings.ReplaceAll(state.CulturalContext, "_", " ")))
	}
	if len(state.Patterns) > 0 {
		sb.WriteString(fmt.Sprintf("Patterns: %s\n", strings.Join(state.Patterns, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Risk level: %s\n\n", state.RiskLevel))

	sb.WriteString("=== SUGGESTED APPROACH ===\n")
	sb.WriteString(plan.Message)
	sb.WriteString("\n")
	if plan.EmotionalSupport != "" {
		sb.WriteString(plan.EmotionalSupport)
		sb.WriteString("\n")
	}
	writeList(&sb, "Resources you may mention", plan.Resources)
	writeList(&sb, "Next steps you may suggest", plan.NextSteps)
	if len(plan.CrisisResources) > 0 {
		writeList(&sb, "Include these crisis contacts", plan.CrisisResources)
	}

	sb.WriteString("\nRULES:\n")
	sb.WriteString("- Validate the feeling before giving advice.\n")
	sb.WriteString("- Do not diagnose and do not give legal advice; point to professionals.\n")
	sb.WriteString("- Keep the reply under 180 words, in plain paragraphs.\n")
	if plan.EscalateToHuman {
		sb.WriteString("- A human counselor has been notified. Tell the user gently that someone will join.\n")
	}
	return sb.String()
}

// BuildMessages antepone el prompt fijo y la instruccion del plan al historial recortado.
func (b SupportPromptBuilder) BuildMessages(history []domain.ChatMessage, state domain.EmotionalState, plan domain.ResponsePlan) []domain.ChatMessage {
	trimmed := make([]domain.ChatMessage, 0, len(history))
	for _, m := range history {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		trimmed = append(trimmed, m)
	}
	if len(trimmed) > maxHistoryMessages {
		trimmed = trimmed[len(trimmed)-maxHistoryMessages:]
	}

	out := make([]domain.ChatMessage, 0, len(trimmed)+2)
	out = append(out,
		domain.ChatMessage{Role: domain.RoleSystem, Content: CompanionSystemPrompt},
		domain.ChatMessage{Role: domain.RoleSystem, Content: b.BuildPlanInstruction(state, plan)},
	)
	return append(out, trimmed...)
}

// BuildCrisisReply arma la respuesta local del camino de crisis, sin LLM.
func (SupportPromptBuilder) BuildCrisisReply(plan domain.ResponsePlan) string {
	var sb strings.Builder
	sb.WriteString(plan.Message)
	if plan.EmotionalSupport != "" {
		sb.WriteString("\n\n")
		sb.WriteString(plan.EmotionalSupport)
	}
	sb.WriteString("\n\n🚨 Emergency Resources:")
	for _, r := range plan.Resources {
		sb.WriteString("\n• ")
		sb.WriteString(r)
	}
	for _, r := range plan.CrisisResources {
		if containsExact(plan.Resources, r) {
			continue
		}
		sb.WriteString("\n• ")
		sb.WriteString(r)
	}
	if len(plan.NextSteps) > 0 {
		sb.WriteString("\n\nRight now:")
		for _, s := range plan.NextSteps {
			sb.WriteString("\n• ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// Annotate agrega las notas opcionales debajo de la respuesta del LLM.
func (SupportPromptBuilder) Annotate(reply string, state domain.EmotionalState, plan domain.ResponsePlan) string {
	var sb strings.Builder
	sb.WriteString(reply)
	if state.PrimaryEmotion != domain.EmotionNeutral && state.PrimaryEmotion != "" {
		sb.WriteString(fmt.Sprintf("\n\n💭 Emotional Insight: I sense you're feeling %s right now.", state.PrimaryEmotion))
	}
	if len(plan.FollowUpQuestions) > 0 {
		sb.WriteString("\n\n❓ ")
		sb.WriteString(plan.FollowUpQuestions[0])
	}
	if len(plan.RoomSuggestions) > 0 {
		sb.WriteString("\n\n🏠 Suggested room: ")
		sb.WriteString(plan.RoomSuggestions[0])
	}
	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString(":\n")
	for _, it := range items {
		sb.WriteString("- ")
		sb.WriteString(it)
		sb.WriteString("\n")
	}
}

func containsExact(list []string, v string) bool {
	for _, it := range list {
		if it == v {
			return true
		}
	}
	return false
}
