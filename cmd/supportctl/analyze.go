package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(env *cliEnv) *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "analyze [mensaje]",
		Short: "Clasifica un mensaje y muestra estado y plan en JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := env.pipeline()
			if err != nil {
				return err
			}
			out := p.Classify(strings.Join(args, " "), locale)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				State          any  `json:"emotional_state"`
				Plan           any  `json:"response"`
				CrisisDetected bool `json:"crisis_detected"`
			}{out.State, out.Plan, out.CrisisDetected}); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "locale del usuario")
	return cmd
}
