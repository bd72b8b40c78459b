package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/llm"
	"divisafe-support/internal/metrics"
)

// ApologyReply se devuelve cuando el LLM no responde. Nunca se muestra el error real.
const ApologyReply = "I apologize, but I'm having trouble connecting right now. Please try again in a moment."

var ErrChatNoUserMessage = errors.New("chat history has no user message")

type ChatInput struct {
	History     []domain.ChatMessage
	UserContext UserContext
	ClientIP    string
	Annotate    bool
}

type ChatReply struct {
	Reply    string   `json:"reply"`
	Analysis Analysis `json:"analysis"`
	Source   string   `json:"source"`
	Degraded bool     `json:"degraded"`
}

const (
	ReplySourceLLM    = "llm"
	ReplySourceCrisis = "crisis_protocol"
)

// ChatService responde mensajes del chat usando el analisis como instruccion para el LLM.
type ChatService struct {
	logger  *zap.Logger
	support *SupportService
	llm     llm.LLMClient
	prompts SupportPromptBuilder
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewChatService(logger *zap.Logger, support *SupportService, client llm.LLMClient, m *metrics.Metrics, timeout time.Duration) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ChatService{
		logger:  logger,
		support: support,
		llm:     client,
		metrics: m,
		timeout: timeout,
	}
}

// Reply analiza el ultimo mensaje del usuario. En crisis responde localmente sin llamar al LLM.
func (s *ChatService) Reply(ctx context.Context, in ChatInput) (ChatReply, error) {
	latest, ok := latestUserMessage(in.History)
	if !ok {
		return ChatReply{}, ErrChatNoUserMessage
	}

	analysis, err := s.support.Analyze(ctx, AnalyzeInput{Message: latest, UserContext: in.UserContext, ClientIP: in.ClientIP})
	if err != nil {
		return ChatReply{}, err
	}

	if analysis.CrisisDetected {
		return ChatReply{
			Reply:    s.prompts.BuildCrisisReply(analysis.Plan),
			Analysis: analysis,
			Source:   ReplySourceCrisis,
		}, nil
	}

	reply := ChatReply{Analysis: analysis, Source: ReplySourceLLM}
	text, err := s.complete(ctx, s.prompts.BuildMessages(in.History, analysis.State, analysis.Plan))
	if err != nil {
		s.metrics.ObserveLLMFailure()
		s.logger.Warn("llm completion failed", zap.Error(err))
		reply.Reply = ApologyReply
		reply.Degraded = true
		return reply, nil
	}

	reply.Reply = strings.TrimSpace(text)
	if in.Annotate {
		reply.Reply = s.prompts.Annotate(reply.Reply, analysis.State, analysis.Plan)
	}
	return reply, nil
}

func (s *ChatService) complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if s.llm == nil {
		return "", llm.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("llm empty response")
	}
	return text, nil
}

func latestUserMessage(history []domain.ChatMessage) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content, true
		}
	}
	return "", false
}
