package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"divisafe-support/internal/domain"
	"divisafe-support/internal/service"
)

type checkScenario struct {
	Name    string
	Input   string
	Locale  string
	Emotion domain.Emotion
	Context domain.Context
	Crisis  bool
	Rule    string
}

// checkScenarios son los casos de regresion del clasificador.
var checkScenarios = []checkScenario{
	{Name: "Tristeza post divorcio", Input: "I feel so sad and alone since the divorce", Emotion: domain.EmotionSad, Context: domain.ContextDivorce},
	{Name: "Ideacion suicida", Input: "I don't see the point in living anymore", Locale: "us", Crisis: true, Rule: "suicidal_ideation"},
	{Name: "Miedo por custodia", Input: "I'm worried about custody of my kids", Emotion: domain.EmotionAnxious, Context: domain.ContextCustody},
	{Name: "Mensaje vacio", Input: "", Emotion: domain.EmotionConfused, Context: domain.ContextEmotional},
	{Name: "Violencia hacia otros", Input: "I want to hurt my ex", Crisis: true, Rule: "violence_toward_others"},
	{Name: "Estres financiero", Input: "I'm stressed about alimony and money", Context: domain.ContextFinancial},
	{Name: "Falso positivo", Input: "My lawyer said I should apply for the hearing", Context: domain.ContextLegal},
}

func newCheckCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Corre los escenarios de regresion del clasificador",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := env.pipeline()
			if err != nil {
				return err
			}
			passed, total := runChecks(cmd.OutOrStdout(), p, checkScenarios)
			if passed != total {
				return fmt.Errorf("%d/%d escenarios fallaron", total-passed, total)
			}
			return nil
		},
	}
}

func runChecks(w io.Writer, p *service.Pipeline, scenarios []checkScenario) (int, int) {
	passed := 0
	for _, sc := range scenarios {
		out := p.Classify(sc.Input, sc.Locale)
		if problem := verifyScenario(sc, out); problem != "" {
			fmt.Fprintf(w, "❌ FAIL [%s] %s\n", sc.Name, problem)
			continue
		}
		fmt.Fprintf(w, "✅ PASS [%s] emotion=%s context=%s risk=%s\n",
			sc.Name, out.State.PrimaryEmotion, out.State.Context, out.State.RiskLevel)
		passed++
	}
	fmt.Fprintf(w, "Escenarios: %d/%d pasaron\n", passed, len(scenarios))
	return passed, len(scenarios)
}

func verifyScenario(sc checkScenario, out service.Classification) string {
	if out.CrisisDetected != sc.Crisis {
		return fmt.Sprintf("crisis esperado=%t obtenido=%t", sc.Crisis, out.CrisisDetected)
	}
	if sc.Rule != "" && out.State.CrisisRuleID != sc.Rule {
		return fmt.Sprintf("regla esperada=%s obtenida=%s", sc.Rule, out.State.CrisisRuleID)
	}
	if sc.Emotion != "" && out.State.PrimaryEmotion != sc.Emotion {
		return fmt.Sprintf("emocion esperada=%s obtenida=%s", sc.Emotion, out.State.PrimaryEmotion)
	}
	if sc.Context != "" && out.State.Context != sc.Context {
		return fmt.Sprintf("contexto esperado=%s obtenido=%s", sc.Context, out.State.Context)
	}
	if out.Plan.Message == "" {
		return "mensaje vacio"
	}
	return ""
}
