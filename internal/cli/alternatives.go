package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"project-planner-ai/internal/domain/entity"
)

func newAlternativesCommand(load Loader) *cobra.Command {
	var (
		kindFlag string
		item     string
		project  string
	)

	cmd := &cobra.Command{
		Use:     "alternatives",
		Short:   "Suggest up to 4 alternatives for a component or framework",
		Example: "  planner-cli alternatives --kind software --item Go --context 智能门锁",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, ok := entity.ParseSolutionKind(kindFlag)
			if !ok {
				return fmt.Errorf("--kind must be hardware or software")
			}
			deps, err := load(cmd.Context())
			if err != nil {
				return err
			}
			suggestions := deps.Generator.GetAlternatives(cmd.Context(), kind, item, project)
			if len(suggestions) == 0 {
				_, err = fmt.Fprintln(cmd.ErrOrStderr(), "no suggestions")
				return err
			}
			for _, s := range suggestions {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "hardware or software")
	cmd.Flags().StringVar(&item, "item", "", "current component or framework")
	cmd.Flags().StringVar(&project, "context", "", "project name used as context")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}
