package workspace

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/domain/entity"
	apperrors "project-planner-ai/pkg/errors"
)

// SuggestionState 编辑会话中候选建议的加载状态
type SuggestionState string

const (
	SuggestionsLoading SuggestionState = "loading"
	SuggestionsLoaded  SuggestionState = "loaded"
	SuggestionsEmpty   SuggestionState = "empty"
)

// TagEditSession 单个标签的编辑会话视图
type TagEditSession struct {
	Kind        entity.SolutionKind `json:"kind"`
	Index       int                 `json:"index"`
	Draft       string              `json:"draft"`
	State       SuggestionState     `json:"state"`
	Suggestions []string            `json:"suggestions"`
}

type tagKey struct {
	kind  entity.SolutionKind
	index int
}

type editSession struct {
	// id 每次打开/刷新都会变化，过期的候选结果按 id 丢弃
	id          uint64
	draft       string
	state       SuggestionState
	suggestions []string
}

// editor 每个工作区的标签编辑状态机：display → editing(loading|loaded|empty) → display。
// 候选缓存归属于各自的编辑会话，会话之间互不共享。
type editor struct {
	seq      uint64
	sessions map[tagKey]*editSession
	group    singleflight.Group
}

func newEditor() *editor {
	return &editor{sessions: make(map[tagKey]*editSession)}
}

func (e *editor) reset() {
	e.sessions = make(map[tagKey]*editSession)
}

func (e *editor) open(k tagKey, draft string) *editSession {
	e.seq++
	s := &editSession{id: e.seq, draft: draft, state: SuggestionsLoading}
	e.sessions[k] = s
	return s
}

func (e *editor) discardKind(kind entity.SolutionKind) {
	for k := range e.sessions {
		if k.kind == kind {
			delete(e.sessions, k)
		}
	}
}

func (e *editor) view(k tagKey) TagEditSession {
	s := e.sessions[k]
	return TagEditSession{
		Kind:        k.kind,
		Index:       k.index,
		Draft:       s.draft,
		State:       s.state,
		Suggestions: append([]string{}, s.suggestions...),
	}
}

func (e *editor) views() []TagEditSession {
	out := make([]TagEditSession, 0, len(e.sessions))
	for k := range e.sessions {
		out = append(out, e.view(k))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// currentTagLocked 校验模板/分区/下标并返回当前标签值
func (w *Workspace) currentTagLocked(kind entity.SolutionKind, index int) (string, error) {
	if w.template == nil {
		return "", apperrors.ErrTemplateNotFound
	}
	if !w.template.HasSection(kind) {
		return "", apperrors.ErrSectionNotFound.WithDetail(string(kind))
	}
	tags := w.template.Tags(kind)
	if index < 0 || index >= len(tags) {
		return "", apperrors.ErrTagNotFound.WithDetail(fmt.Sprintf("%s[%d]", kind, index))
	}
	return tags[index], nil
}

// BeginEdit 打开标签编辑器；首次打开时惰性获取候选建议，之后复用本次会话的缓存
func (w *Workspace) BeginEdit(ctx context.Context, kind entity.SolutionKind, index int) (TagEditSession, error) {
	w.mu.Lock()
	item, err := w.currentTagLocked(kind, index)
	if err != nil {
		w.mu.Unlock()
		return TagEditSession{}, err
	}
	k := tagKey{kind: kind, index: index}
	s, ok := w.editor.sessions[k]
	if !ok {
		s = w.editor.open(k, item)
	}
	if s.state != SuggestionsLoading {
		view := w.editor.view(k)
		w.mu.Unlock()
		return view, nil
	}
	id := s.id
	w.mu.Unlock()

	return w.fetchSuggestions(ctx, k, id, item)
}

// RefreshSuggestions 重新获取候选建议（编辑器未打开时等同于 BeginEdit）
func (w *Workspace) RefreshSuggestions(ctx context.Context, kind entity.SolutionKind, index int) (TagEditSession, error) {
	w.mu.Lock()
	item, err := w.currentTagLocked(kind, index)
	if err != nil {
		w.mu.Unlock()
		return TagEditSession{}, err
	}
	k := tagKey{kind: kind, index: index}
	draft := item
	if s, ok := w.editor.sessions[k]; ok {
		draft = s.draft
	}
	id := w.editor.open(k, draft).id
	w.mu.Unlock()

	return w.fetchSuggestions(ctx, k, id, item)
}

// fetchSuggestions 在锁外查询候选；同一会话的并发请求经 singleflight 合并
func (w *Workspace) fetchSuggestions(ctx context.Context, k tagKey, id uint64, item string) (TagEditSession, error) {
	w.mu.Lock()
	project := ""
	if w.template != nil {
		project = w.template.BasicInfo.Name
	}
	w.mu.Unlock()

	key := fmt.Sprintf("%s/%d/%d", k.kind, k.index, id)
	v, _, _ := w.editor.group.Do(key, func() (any, error) {
		return w.gen.GetAlternatives(context.WithoutCancel(ctx), k.kind, item, project), nil
	})
	suggestions, _ := v.([]string)

	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.editor.sessions[k]
	if !ok {
		// 会话已被取消/删除
		return TagEditSession{Kind: k.kind, Index: k.index, State: SuggestionsEmpty, Suggestions: []string{}}, nil
	}
	if s.id == id {
		s.suggestions = append([]string{}, suggestions...)
		if len(suggestions) == 0 {
			s.state = SuggestionsEmpty
		} else {
			s.state = SuggestionsLoaded
		}
	}
	return w.editor.view(k), nil
}

// SaveTag 保存标签：去除首尾空白，空值拒绝；替换第 index 项并关闭编辑器
func (w *Workspace) SaveTag(kind entity.SolutionKind, index int, value string) (*entity.ProjectTemplate, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, &planner.ValidationError{Message: "标签内容不能为空"}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.currentTagLocked(kind, index); err != nil {
		return nil, err
	}
	next, err := w.template.WithTag(kind, index, value)
	if err != nil {
		return nil, err
	}
	w.template = next
	delete(w.editor.sessions, tagKey{kind: kind, index: index})
	return next.Clone(), nil
}

// CancelEdit 关闭编辑器，不修改模板
func (w *Workspace) CancelEdit(kind entity.SolutionKind, index int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.editor.sessions, tagKey{kind: kind, index: index})
}

// DeleteTag 删除标签（展示态或编辑态均可）；该分区的编辑会话因下标变化全部丢弃
func (w *Workspace) DeleteTag(kind entity.SolutionKind, index int) (*entity.ProjectTemplate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.currentTagLocked(kind, index); err != nil {
		return nil, err
	}
	next, err := w.template.WithoutTag(kind, index)
	if err != nil {
		return nil, err
	}
	w.template = next
	w.editor.discardKind(kind)
	return next.Clone(), nil
}

// AppendTag 追加占位标签并立即为其打开编辑器
func (w *Workspace) AppendTag(ctx context.Context, kind entity.SolutionKind) (TagEditSession, error) {
	w.mu.Lock()
	if w.template == nil {
		w.mu.Unlock()
		return TagEditSession{}, apperrors.ErrTemplateNotFound
	}
	next, err := w.template.WithAppendedTag(kind, kind.Placeholder())
	if err != nil {
		w.mu.Unlock()
		return TagEditSession{}, err
	}
	w.template = next
	index := len(next.Tags(kind)) - 1
	w.mu.Unlock()

	return w.BeginEdit(ctx, kind, index)
}
