package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/llm"
	"divisafe-support/internal/service"
)

func newChatCmd(env *cliEnv) *cobra.Command {
	var (
		locale   string
		annotate bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Conversa con el companero de soporte desde la terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, p, err := env.pipeline()
			if err != nil {
				return err
			}
			support := service.NewSupportService(env.logger, kb, p, service.SupportDeps{
				Interactions:  service.NewZapInteractionLogger(env.logger),
				Escalations:   service.NewMemoryEscalationStore(service.EscalationTTL),
				Anonymizer:    service.NewAnonymizer(env.cfg.AnonymizationKey),
				DefaultLocale: env.cfg.DefaultLocale,
			})
			timeout := time.Duration(env.cfg.LLMTimeoutSeconds) * time.Second
			client := llm.NewHTTPClient(env.cfg.LLMBaseURL, env.cfg.LLMAPIKey, env.cfg.LLMModel, timeout, env.logger)
			chat := service.NewChatService(env.logger, support, client, nil, timeout)

			return chatLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), chat, service.UserContext{
				AnonymousID: uuid.NewString(),
				SessionID:   uuid.NewString(),
				Locale:      locale,
			}, annotate)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "locale del usuario")
	cmd.Flags().BoolVar(&annotate, "annotate", true, "agrega insight emocional, pregunta y sala sugerida")
	return cmd
}

func chatLoop(ctx context.Context, in io.Reader, out io.Writer, chat *service.ChatService, uc service.UserContext, annotate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reader := bufio.NewReader(in)
	var history []domain.ChatMessage

	fmt.Fprintln(out, "---- Modo Chat (escribe 'salir' para terminar) ----")
	for {
		fmt.Fprint(out, "Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("leer input: %w", err)
		}
		eof := errors.Is(err, io.EOF)
		text = strings.TrimSpace(text)
		if text == "" {
			if eof {
				return nil
			}
			continue
		}
		if strings.EqualFold(text, "salir") || strings.EqualFold(text, "exit") {
			fmt.Fprintln(out, "Saliendo del chat...")
			return nil
		}

		history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: text})
		reply, rerr := chat.Reply(ctx, service.ChatInput{History: history, UserContext: uc, Annotate: annotate})
		if rerr != nil {
			fmt.Fprintf(out, "error generando respuesta: %v\n", rerr)
		} else {
			history = append(history, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply.Reply})
			st := reply.Analysis.State
			fmt.Fprintf(out, "[%s/%s riesgo=%s]\n", st.PrimaryEmotion, st.Context, st.RiskLevel)
			fmt.Fprintf(out, "DivySafe > %s\n", reply.Reply)
		}
		if eof {
			return nil
		}
	}
}
