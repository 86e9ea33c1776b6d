package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"project-planner-ai/internal/application/export"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/domain/entity"
)

func newDetailCommand(load Loader) *cobra.Command {
	var (
		kindFlag string
		in       string
		out      string
	)

	cmd := &cobra.Command{
		Use:     "detail",
		Short:   "Expand the hardware or software section of an exported template",
		Example: "  planner-cli detail --kind hardware --in 智能门锁_template.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, ok := entity.ParseSolutionKind(kindFlag)
			if !ok {
				return fmt.Errorf("--kind must be hardware or software")
			}
			tpl, err := readTemplate(in)
			if err != nil {
				return err
			}

			deps, err := load(cmd.Context())
			if err != nil {
				return err
			}
			ws := workspace.New(deps.Generator, deps.Options)
			if err := ws.Restore(tpl); err != nil {
				return err
			}
			plan, err := ws.ExpandDetail(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), plan)
				return err
			}
			updated, err := ws.Template()
			if err != nil {
				return err
			}
			body, err := deps.Renderer.JSON(updated)
			if err != nil {
				return err
			}
			return writeFile(cmd.OutOrStdout(), out, export.JSONFileName(updated.BasicInfo.Name), body)
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "section to expand: hardware or software")
	cmd.Flags().StringVar(&in, "in", "", "template JSON exported earlier")
	cmd.Flags().StringVar(&out, "out", "", "write the updated template JSON into this directory instead of printing the plan")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
