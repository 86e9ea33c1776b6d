// Package cli 提供 planner-cli 的 cobra 命令：在终端中完成生成、展开与导出
package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"project-planner-ai/internal/application/export"
	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/domain/entity"
)

// Deps 命令运行所需依赖
type Deps struct {
	Generator workspace.Generator
	Renderer  *export.Renderer
	Options   workspace.Options
}

// Loader 惰性构造依赖，使 --help 等命令无需加载配置
type Loader func(ctx context.Context) (*Deps, error)

// NewRootCommand 创建根命令
func NewRootCommand(load Loader, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "planner-cli",
		Short:         "AI project-template planner",
		Long:          "根据需求描述与附件生成项目规划模板，并导出为 JSON / Word / 打印版 HTML。",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newGenerateCommand(load),
		newDetailCommand(load),
		newAlternativesCommand(load),
	)
	return root
}

// localUpload 本地文件转为工作区上传；类型按扩展名判断，非图片内容不会被读取
func localUpload(path string) workspace.Upload {
	return workspace.Upload{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// readTemplate 读取并校验先前导出的模板 JSON
func readTemplate(path string) (*entity.ProjectTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return planner.ParseTemplate(string(raw))
}

// writeFile 写出导出文件并打印路径
func writeFile(w io.Writer, dir, name string, body []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	_, _ = fmt.Fprintln(w, path)
	return nil
}
