package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "project-planner-ai/internal/domain/service"
	wfmodel "project-planner-ai/internal/workflow/model"
	wfnode "project-planner-ai/internal/workflow/node"
	workflowport "project-planner-ai/internal/workflow/port"
	workflowprompt "project-planner-ai/internal/workflow/prompt"
	"project-planner-ai/pkg/logger"
)

var defaultPromptRegistry = workflowprompt.NewRegistry()

// responseSchema 结构化输出约束；nil 表示仅靠提示词约束
type responseSchema struct {
	Name   string
	Schema func() map[string]any
}

// llmChain 三段式 LLM 调用链：模板渲染 → 模型调用（schema 不支持时降级）→ 输出。
type llmChain[I any] struct {
	name     string
	workflow string
	factory  workflowport.ChatModelFactory
	format   func(ctx context.Context, in I) ([]*schema.Message, error)
	options  func(in I) wfmodel.CallOptions
	schema   *responseSchema

	chainOnce sync.Once
	chain     compose.Runnable[I, *schema.Message]
	chainErr  error
}

type llmChainState[I any] struct {
	In       I
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *llmChain[I]) invoke(ctx context.Context, in I) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.build(context.Background())
	})
	if c.chainErr != nil {
		return nil, c.chainErr
	}
	return c.chain.Invoke(ctx, in)
}

func (c *llmChain[I]) build(ctx context.Context) (compose.Runnable[I, *schema.Message], error) {
	chain := compose.NewChain[I, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, in I) (*llmChainState[I], error) {
			msgs, err := c.format(ctx, in)
			if err != nil {
				return nil, err
			}
			return &llmChainState[I]{In: in, Messages: msgs}, nil
		}),
		compose.WithNodeName(c.name+".template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *llmChainState[I]) (*llmChainState[I], error) {
			if st == nil {
				return nil, fmt.Errorf("state is nil")
			}
			opts := c.options(st.In)
			provider := strings.TrimSpace(opts.Provider)

			ctx = llmctx.WithWorkflowProvider(ctx, c.workflow, provider)
			chatModel, err := c.factory.Get(ctx, provider)
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildModelOptions(opts, c.schema)...)
			if err != nil && c.schema != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"workflow", c.workflow,
					"provider", provider,
					"model", strings.TrimSpace(opts.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildModelOptions(opts, nil)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName(c.name+".llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *llmChainState[I]) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName(c.name+".finalize"),
	)

	return chain.Compile(ctx)
}

func buildModelOptions(in wfmodel.CallOptions, rs *responseSchema) []model.Option {
	opts := make([]model.Option, 0, 4)

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if m := strings.TrimSpace(in.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	extra := map[string]any{}
	if effort := strings.TrimSpace(in.ReasoningEffort); effort != "" {
		extra["reasoning_effort"] = effort
	}
	if rs != nil && rs.Schema != nil {
		extra["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   rs.Name,
				"strict": false,
				"schema": rs.Schema(),
			},
		}
	}
	if len(extra) > 0 {
		opts = append(opts, openaiopts.WithExtraFields(extra))
	}

	return opts
}
