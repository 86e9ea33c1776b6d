package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"project-planner-ai/internal/application/export"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/domain/entity"
)

var exportFormats = []string{export.FormatJSON, export.FormatWord, export.FormatPrint}

func newGenerateCommand(load Loader) *cobra.Command {
	var (
		form    workspace.Form
		files   []string
		outDir  string
		formats []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a project template and export it",
		Example: `  planner-cli generate --functional "智能门锁，支持指纹与远程开锁" --team-size 6-10人 --duration 3个月 \
    --file 需求.pdf --file 草图.png --out ./out --format json,word,pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, f := range formats {
				if !slices.Contains(exportFormats, f) {
					return fmt.Errorf("unknown format %q (want %s)", f, strings.Join(exportFormats, ","))
				}
			}

			deps, err := load(cmd.Context())
			if err != nil {
				return err
			}
			ws := workspace.New(deps.Generator, deps.Options)

			uploads := make([]workspace.Upload, 0, len(files))
			for _, path := range files {
				uploads = append(uploads, localUpload(path))
			}
			tpl, err := ws.Submit(cmd.Context(), form, uploads)
			if err != nil {
				return err
			}
			return exportAll(cmd, deps.Renderer, tpl, outDir, formats)
		},
	}

	cmd.Flags().StringVar(&form.FunctionalReq, "functional", "", "functional requirements")
	cmd.Flags().StringVar(&form.TechReq, "tech", "", "technical requirements")
	cmd.Flags().StringVar(&form.TeamSize, "team-size", "", "team size ("+strings.Join(workspace.TeamSizes, " / ")+")")
	cmd.Flags().StringVar(&form.Duration, "duration", "", "expected duration, e.g. 3个月")
	cmd.Flags().StringArrayVar(&files, "file", nil, "attachment path (repeatable; images are sent inline)")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringSliceVar(&formats, "format", []string{export.FormatJSON}, "export formats: json,word,pdf")

	return cmd
}

func exportAll(cmd *cobra.Command, r *export.Renderer, tpl *entity.ProjectTemplate, dir string, formats []string) error {
	name := tpl.BasicInfo.Name
	for _, f := range formats {
		var (
			body     []byte
			filename string
			err      error
		)
		switch f {
		case export.FormatJSON:
			body, err = r.JSON(tpl)
			filename = export.JSONFileName(name)
		case export.FormatWord:
			body, err = r.Word(tpl)
			filename = export.WordFileName(name)
		case export.FormatPrint:
			body, err = r.Print(tpl, true)
			filename = export.PrintFileName(name)
		}
		if err != nil {
			return err
		}
		if err := writeFile(cmd.OutOrStdout(), dir, filename, body); err != nil {
			return err
		}
	}
	return nil
}
