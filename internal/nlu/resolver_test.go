package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/cruise-concierge/internal/llm"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
)

type mockLLM struct{ mock.Mock }

func (m *mockLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*llm.CompletionResponse)
	return resp, args.Error(1)
}

func (m *mockLLM) Name() string { return "mock" }

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		content string
		intent  model.Intent
		args    map[string]any
	}{
		{
			name:    "plain json",
			content: `{"intent":"pick-a-sailing","arguments":{"Number":2}}`,
			intent:  model.IntentPickASailing,
			args:    map[string]any{"Number": 2.0},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"intent\":\"get-dob\",\"arguments\":{\"Date\":\"1980-05-17\"}}\n```",
			intent:  model.IntentGetDateOfBirth,
			args:    map[string]any{"Date": "1980-05-17"},
		},
		{
			name:    "no arguments",
			content: `{"intent":"find-cruise-deals"}`,
			intent:  model.IntentFindCruiseDeals,
			args:    map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockLLM{}
			client.On("Complete", mock.Anything, mock.MatchedBy(func(req *llm.CompletionRequest) bool {
				return req.Messages[0].Content == "the second one" && req.System != ""
			})).Return(&llm.CompletionResponse{Content: tt.content}, nil)

			r := NewResolver(client, "", logger.NewNop())
			res, err := r.Resolve(context.Background(), "the second one", model.MarkerPickASailing)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, res.Intent)
			assert.Equal(t, tt.args, res.Arguments)
			client.AssertExpectations(t)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	client := &mockLLM{}
	client.On("Complete", mock.Anything, mock.Anything).Return(&llm.CompletionResponse{Content: "I think you want a cruise"}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything).Return(&llm.CompletionResponse{Content: `{"arguments":{}}`}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited")).Once()

	r := NewResolver(client, "", logger.NewNop())
	ctx := context.Background()

	_, err := r.Resolve(ctx, "hello", model.MarkerNone)
	assert.ErrorIs(t, err, ErrUnresolved)

	_, err = r.Resolve(ctx, "hello", model.MarkerNone)
	assert.ErrorIs(t, err, ErrUnresolved)

	_, err = r.Resolve(ctx, "hello", model.MarkerNone)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnresolved)
}
