package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-planner-ai/internal/application/export"
	"project-planner-ai/internal/application/planner"
	"project-planner-ai/internal/application/workspace"
	"project-planner-ai/internal/config"
	"project-planner-ai/internal/domain/entity"
	"project-planner-ai/internal/interfaces/http/handler"
	"project-planner-ai/internal/interfaces/http/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	mu           sync.Mutex
	template     *entity.ProjectTemplate
	genErr       error
	plan         string
	alternatives []string
	genCalls     int
	// block 非 nil 时 GenerateTemplate 等待其关闭
	block chan struct{}
}

func (g *fakeGenerator) GenerateTemplate(_ context.Context, _ planner.GenerateInput) (*entity.ProjectTemplate, error) {
	g.mu.Lock()
	g.genCalls++
	block := g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.genErr != nil {
		return nil, g.genErr
	}
	return g.template.Clone(), nil
}

func (g *fakeGenerator) GenerateDetailedPlan(_ context.Context, _ entity.SolutionKind, _, _ string) (string, error) {
	return g.plan, nil
}

func (g *fakeGenerator) GetAlternatives(_ context.Context, _ entity.SolutionKind, _, _ string) []string {
	return g.alternatives
}

func loadFixture(t *testing.T) *entity.ProjectTemplate {
	t.Helper()
	raw, err := os.ReadFile("../../../application/planner/testdata/template.json")
	require.NoError(t, err)
	tpl, err := planner.ParseTemplate(string(raw))
	require.NoError(t, err)
	return tpl
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "project-planner-ai"
	cfg.App.Env = "test"
	cfg.Workspace.CookieName = "sid"
	cfg.Workspace.SessionTTL = time.Hour
	cfg.Workspace.MaxFiles = 5
	cfg.Workspace.MaxUploadBytes = 1 << 20
	cfg.LLM.DefaultProvider = "gemini"
	cfg.LLM.Providers = map[string]config.ProviderConfig{"gemini": {APIKey: "k"}}
	return cfg
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
}

func newTestServer(t *testing.T, gen *fakeGenerator) *testServer {
	t.Helper()
	cfg := testConfig()
	reg := workspace.NewRegistry(gen, cfg)
	renderer, err := export.NewRenderer(cfg.Export.PDF)
	require.NoError(t, err)
	pages, err := view.Load()
	require.NoError(t, err)

	r := New(cfg, Handlers{
		Health:       handler.NewHealthHandler(cfg, nil),
		Page:         handler.NewPageHandler(reg),
		Workspace:    handler.NewWorkspaceHandler(reg),
		Alternatives: handler.NewAlternativesHandler(gen),
		Export:       handler.NewExportHandler(reg, renderer),
	}, pages, nil)
	return &testServer{t: t, engine: r.Engine()}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "sid" {
			s.cookie = c
		}
	}
	return w
}

func (s *testServer) json(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) form(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

type envelope[T any] struct {
	Code int `json:"code"`
	Data T   `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{})

	assert.Equal(t, http.StatusOK, s.do(httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusOK, s.do(httptest.NewRequest(http.MethodGet, "/live", nil)).Code)

	w := s.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":{"status":"disabled"}`)
}

func TestIndex_RendersEmptyWorkspace(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{})

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "生成项目模板")
	assert.Contains(t, w.Body.String(), "1-5人")
	assert.NotNil(t, s.cookie)
}

func TestUIGenerate_EmptyInputShowsValidationMessage(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t)}
	s := newTestServer(t, gen)

	w := s.form("/ui/generate", url.Values{"functional_req": {"   "}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, gen.genCalls)

	w = s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), planner.MsgInputRequired)
}

func TestUIGenerate_WithFilesAndTemplate(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t)}
	s := newTestServer(t, gen)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("functional_req", "智能门锁"))
	require.NoError(t, mw.WriteField("team_size", "6-10人"))
	fw, err := mw.CreateFormFile("files", "需求.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ui/generate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, gen.genCalls)

	page := s.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, page, "智能门锁 项目")
	assert.Contains(t, page, "需求.txt")
	assert.Contains(t, page, "ESP32-S3")
	assert.Contains(t, page, `<option value="6-10人" selected>`)
}

func TestAPI_TagFlow(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t), alternatives: []string{"STM32", "nRF52"}}
	s := newTestServer(t, gen)

	w := s.json(http.MethodPost, "/v1/workspace/generate", map[string]string{"functionalReq": "门锁"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodPost, "/v1/workspace/tags/hardware/0/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[workspace.TagEditSession](t, w)
	assert.Equal(t, "ESP32-S3", session.Draft)
	assert.Equal(t, workspace.SuggestionsLoaded, session.State)
	assert.Equal(t, []string{"STM32", "nRF52"}, session.Suggestions)

	w = s.json(http.MethodPut, "/v1/workspace/tags/hardware/0", map[string]string{"value": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(http.MethodPut, "/v1/workspace/tags/hardware/0", map[string]string{"value": " STM32 "})
	require.Equal(t, http.StatusOK, w.Code)
	tpl := decode[entity.ProjectTemplate](t, w)
	assert.Equal(t, []string{"STM32", "FPC1020", "直流减速电机"}, tpl.TechnicalSolution.Hardware.Components)

	w = s.json(http.MethodPost, "/v1/workspace/tags/software", nil)
	require.Equal(t, http.StatusOK, w.Code)
	session = decode[workspace.TagEditSession](t, w)
	assert.Equal(t, 2, session.Index)
	assert.Equal(t, "新框架", session.Draft)

	w = s.json(http.MethodDelete, "/v1/workspace/tags/software/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tpl = decode[entity.ProjectTemplate](t, w)
	assert.Equal(t, []string{"React Native", "新框架"}, tpl.TechnicalSolution.Software.Frameworks)

	w = s.json(http.MethodDelete, "/v1/workspace/tags/software/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.json(http.MethodPost, "/v1/workspace/tags/firmware/0/edit", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_GenerateFailureKeepsTemplate(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t)}
	s := newTestServer(t, gen)

	require.Equal(t, http.StatusOK, s.json(http.MethodPost, "/v1/workspace/generate", map[string]string{"functionalReq": "门锁"}).Code)

	gen.genErr = &planner.GenerationError{Message: "upstream 503"}
	w := s.json(http.MethodPost, "/v1/workspace/generate", map[string]string{"functionalReq": "门锁"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	snap := decode[workspace.Snapshot](t, s.json(http.MethodGet, "/v1/workspace", nil))
	assert.False(t, snap.Loading)
	assert.Equal(t, "upstream 503", snap.Error)
	require.NotNil(t, snap.Template)
	assert.Equal(t, "智能门锁 项目", snap.Template.BasicInfo.Name)
}

func TestAPI_ExpandDetail(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t), plan: "## 物料清单 (BOM)\n\n| 器件 | 数量 |\n|---|---|\n| ESP32-S3 | 1 |"}
	s := newTestServer(t, gen)

	w := s.json(http.MethodPost, "/v1/workspace/detail/hardware", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "no template yet")

	require.Equal(t, http.StatusOK, s.json(http.MethodPost, "/v1/workspace/generate", map[string]string{"functionalReq": "门锁"}).Code)
	w = s.json(http.MethodPost, "/v1/workspace/detail/hardware", nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := s.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "物料清单 (BOM)")
}

func TestExports(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t)}
	s := newTestServer(t, gen)

	w := s.do(httptest.NewRequest(http.MethodGet, "/export/json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusOK, s.json(http.MethodPost, "/v1/workspace/generate", map[string]string{"functionalReq": "门锁"}).Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/export/json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	var back entity.ProjectTemplate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &back))
	assert.Equal(t, loadFixture(t), &back)

	w = s.do(httptest.NewRequest(http.MethodGet, "/export/word", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.WordContentType, w.Header().Get("Content-Type"))

	w = s.do(httptest.NewRequest(http.MethodGet, "/export/pdf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "window.print()")
}

func TestUISaveTag_EmptyValueRendersNotice(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t)}
	s := newTestServer(t, gen)
	require.Equal(t, http.StatusOK, s.json(http.MethodPost, "/v1/workspace/generate", map[string]string{"functionalReq": "门锁"}).Code)

	w := s.form("/ui/tags/hardware/0", url.Values{"value": {"   "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "标签内容不能为空")

	w = s.form("/ui/tags/hardware/0", url.Values{"value": {"ESP32-S3"}, "suggestion": {"STM32"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	snap := decode[workspace.Snapshot](t, s.json(http.MethodGet, "/v1/workspace", nil))
	assert.Equal(t, "STM32", snap.Template.TechnicalSolution.Hardware.Components[0])
}

func TestAlternatives_Stateless(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{})

	w := s.json(http.MethodPost, "/v1/alternatives", map[string]string{"kind": "software", "item": "Gin"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Suggestions []string `json:"suggestions"`
	}](t, w)
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, resp.Suggestions)

	w = s.json(http.MethodPost, "/v1/alternatives", map[string]string{"kind": "firmware", "item": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t)}
	a := newTestServer(t, gen)
	require.Equal(t, http.StatusOK, a.json(http.MethodPost, "/v1/workspace/generate", map[string]string{"functionalReq": "门锁"}).Code)

	b := &testServer{t: t, engine: a.engine}
	snap := decode[workspace.Snapshot](t, b.json(http.MethodGet, "/v1/workspace", nil))
	assert.Nil(t, snap.Template)
}

func TestUIGenerate_BusySubmitChangesNothing(t *testing.T) {
	gen := &fakeGenerator{template: loadFixture(t), block: make(chan struct{})}
	s := newTestServer(t, gen)
	s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, s.cookie)

	first := httptest.NewRequest(http.MethodPost, "/ui/generate",
		strings.NewReader(url.Values{"functional_req": {"智能门锁"}}.Encode()))
	first.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	first.AddCookie(s.cookie)
	done := make(chan int, 1)
	go func() {
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, first)
		done <- w.Code
	}()

	snapshot := func() workspace.Snapshot {
		return decode[workspace.Snapshot](t, s.json(http.MethodGet, "/v1/workspace", nil))
	}
	require.Eventually(t, func() bool { return snapshot().Loading }, 2*time.Second, 5*time.Millisecond)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("functional_req", "第二次提交"))
	fw, err := mw.CreateFormFile("files", "追加.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/ui/generate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	assert.Equal(t, http.StatusSeeOther, s.do(req).Code)

	snap := snapshot()
	assert.Equal(t, "智能门锁", snap.Form.FunctionalReq)
	assert.Empty(t, snap.Files)

	close(gen.block)
	assert.Equal(t, http.StatusSeeOther, <-done)
	snap = snapshot()
	assert.Equal(t, "智能门锁", snap.Form.FunctionalReq)
	assert.Empty(t, snap.Files)
	assert.Equal(t, 1, gen.genCalls)
}
