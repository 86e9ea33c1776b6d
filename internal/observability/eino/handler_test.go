package eino

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-planner-ai/internal/domain/service"
	"project-planner-ai/pkg/logger"
	"project-planner-ai/pkg/metrics"
)

type recordingUsage struct {
	got []service.LLMUsageInput
}

func (r *recordingUsage) Record(_ context.Context, in service.LLMUsageInput) error {
	r.got = append(r.got, in)
	return nil
}

func TestChatModelCallback_SuccessRecordsUsage(t *testing.T) {
	rec := &recordingUsage{}
	h := newChatModelCallbackHandler(rec)

	ctx := service.WithWorkflowProvider(context.Background(), "cb_test_ok", "gemini")
	ctx = context.WithValue(ctx, logger.SessionIDKey, "sess-1")

	before := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test_ok", "gemini", "m1", "success"))

	ctx = h.OnStart(ctx, &einocb.RunInfo{Name: "n", Type: "OpenAI"}, &model.CallbackInput{Config: &model.Config{Model: "m1"}})
	h.OnEnd(ctx, nil, &model.CallbackOutput{
		Message:    schema.AssistantMessage("ok", nil),
		TokenUsage: &model.TokenUsage{PromptTokens: 10, CompletionTokens: 5},
	})

	after := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test_ok", "gemini", "m1", "success"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, float64(10), testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("cb_test_ok", "gemini", "m1", "prompt")))

	require.Len(t, rec.got, 1)
	assert.Equal(t, "sess-1", rec.got[0].SessionID)
	assert.Equal(t, "m1", rec.got[0].Model)
	assert.Equal(t, 5, rec.got[0].CompletionTokens)
}

func TestChatModelCallback_ErrorUsesStartModelLabel(t *testing.T) {
	h := newChatModelCallbackHandler(nil)
	ctx := service.WithWorkflowProvider(context.Background(), "cb_test_err", "gemini")

	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Config: &model.Config{Model: "m2"}})
	h.OnError(ctx, nil, errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("cb_test_err", "gemini", "m2", "error")))
}
