package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"divisafe-support/internal/config"
	"divisafe-support/internal/knowledge"
	"divisafe-support/internal/service"
)

// cliEnv concentra lo que comparten los subcomandos.
type cliEnv struct {
	cfg           *config.Config
	logger        *zap.Logger
	knowledgeFile string
	seed          int64
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{}

	root := &cobra.Command{
		Use:          "supportctl",
		Short:        "Herramientas de operacion del soporte emocional",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			env.cfg = cfg
			if env.knowledgeFile == "" {
				env.knowledgeFile = cfg.KnowledgeFile
			}
			if env.seed == 0 {
				env.seed = cfg.ResponseSeed
			}
			if env.logger == nil {
				env.logger = zap.NewNop()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&env.knowledgeFile, "knowledge", "", "archivo YAML con overrides de la base de conocimiento")
	root.PersistentFlags().Int64Var(&env.seed, "seed", 0, "semilla para elegir plantillas (0 = siempre la primera)")

	root.AddCommand(
		newAnalyzeCmd(env),
		newCheckCmd(env),
		newChatCmd(env),
		newResourcesCmd(env),
		newTokenCmd(env),
	)
	return root
}

func (e *cliEnv) knowledgeBase() (*knowledge.KnowledgeBase, error) {
	if e.knowledgeFile == "" {
		return knowledge.Default(), nil
	}
	return knowledge.LoadFile(e.knowledgeFile)
}

func (e *cliEnv) pipeline() (*knowledge.KnowledgeBase, *service.Pipeline, error) {
	kb, err := e.knowledgeBase()
	if err != nil {
		return nil, nil, err
	}
	var picker service.TemplatePicker = service.FirstPicker{}
	if e.seed != 0 {
		picker = service.NewSeededPicker(e.seed)
	}
	return kb, service.NewPipeline(kb, picker, e.logger), nil
}

func newResourcesCmd(env *cliEnv) *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Lista los recursos de crisis de un locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := env.knowledgeBase()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range kb.CrisisResourcesFor(locale) {
				fmt.Fprintf(out, "• %s\n", r)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", knowledge.LocaleGlobal, "locale (us, india, eu, global)")
	return cmd
}

func newTokenCmd(env *cliEnv) *cobra.Command {
	var (
		moderatorID string
		displayName string
		ttl         time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de moderador para el panel de escalaciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not configured")
			}
			if ttl <= 0 {
				ttl = time.Duration(env.cfg.ModeratorTokenTTLMinutes) * time.Minute
			}
			tok, err := service.NewModeratorTokenService(env.cfg.JWTSecret, ttl).Issue(moderatorID, displayName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			fmt.Fprintf(cmd.ErrOrStderr(), "expira: %s\n", tok.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&moderatorID, "moderator", "", "id del moderador")
	cmd.Flags().StringVar(&displayName, "name", "", "nombre visible")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "duracion del token")
	_ = cmd.MarkFlagRequired("moderator")
	return cmd
}
