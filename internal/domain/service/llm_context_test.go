package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowProviderContext(t *testing.T) {
	ctx := WithWorkflowProvider(context.Background(), " detail_plan ", "gemini")
	assert.Equal(t, "detail_plan", WorkflowFromContext(ctx))
	assert.Equal(t, "gemini", ProviderFromContext(ctx))

	empty := WithWorkflowProvider(context.Background(), "", " ")
	assert.Equal(t, "unknown", WorkflowFromContext(empty))
	assert.Equal(t, "unknown", ProviderFromContext(empty))
}

func TestWorkflowProviderContext_KeepsOuterLabels(t *testing.T) {
	ctx := WithWorkflowProvider(context.Background(), "alternatives", "gemini")
	ctx = WithWorkflowProvider(ctx, "", "openai")
	assert.Equal(t, "alternatives", WorkflowFromContext(ctx))
	assert.Equal(t, "openai", ProviderFromContext(ctx))
}
