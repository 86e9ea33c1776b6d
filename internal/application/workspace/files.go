package workspace

import (
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"project-planner-ai/internal/application/planner"
)

// AcceptedUploads 文件选择器 accept 属性
const AcceptedUploads = ".pdf,.doc,.docx,.txt,image/*"

var acceptedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// Upload 一个待加入工作区的上传文件；Open 仅在需要读取内容（图片）时调用
type Upload struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// IsAcceptedUpload 判断文件是否属于可接受的类型（文档扩展名或 image/*）
func IsAcceptedUpload(name, contentType string) bool {
	if isImageType(contentType) {
		return true
	}
	_, ok := acceptedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func isImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// readUpload 将上传转换为生成输入：图片读取并 base64 编码，其余文件只保留名称（不读取内容）
func readUpload(u Upload, maxBytes int64) (planner.FileInput, error) {
	name := strings.TrimSpace(filepath.Base(u.Name))
	if name == "" || name == "." {
		name = "未命名文件"
	}
	out := planner.FileInput{Name: name, MIMEType: strings.TrimSpace(u.ContentType)}

	if !isImageType(u.ContentType) || u.Open == nil {
		return out, nil
	}

	rc, err := u.Open()
	if err != nil {
		return out, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if maxBytes > 0 {
		r = io.LimitReader(rc, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", name, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return out, &planner.ValidationError{Message: fmt.Sprintf("文件 %s 超过大小限制", name)}
	}

	// 以内容嗅探结果为准，声明为图片但内容不是图片时按普通文件处理
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return out, nil
	}
	out.MIMEType = detected.String()
	out.Data = base64.StdEncoding.EncodeToString(data)
	return out, nil
}
