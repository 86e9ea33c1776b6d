package node

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	wfmodel "project-planner-ai/internal/workflow/model"
)

// JoinFileNames 拼接参考文档名称，空名称跳过
func JoinFileNames(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return strings.Join(out, ", ")
}

// AttachImages 将图片以内联 data URL 形式挂到最后一条用户消息上。
// 原文本作为第一个 part 保留，Content 置空以免重复发送。
func AttachImages(msgs []*schema.Message, images []wfmodel.InlineImage) []*schema.Message {
	if len(images) == 0 || len(msgs) == 0 {
		return msgs
	}
	idx := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i] != nil && msgs[i].Role == schema.User {
			idx = i
			break
		}
	}
	if idx < 0 {
		return msgs
	}

	src := msgs[idx]
	parts := make([]schema.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeText,
		Text: src.Content,
	})
	for _, img := range images {
		if strings.TrimSpace(img.Data) == "" {
			continue
		}
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      "data:" + img.MIMEType + ";base64," + img.Data,
				MIMEType: img.MIMEType,
			},
		})
	}
	if len(parts) == 1 {
		return msgs
	}

	msg := *src
	msg.Content = ""
	msg.MultiContent = parts

	out := make([]*schema.Message, len(msgs))
	copy(out, msgs)
	out[idx] = &msg
	return out
}
