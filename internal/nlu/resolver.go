// Package nlu resolves free-text utterances into booking intents and arguments.
package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/llm"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
)

// ErrUnresolved is returned when the model output cannot be read as an intent.
var ErrUnresolved = errors.New("utterance could not be resolved")

const instructions = `You route messages for a cruise booking assistant.
Reply with a single JSON object {"intent": string, "arguments": object} and nothing else.
Intents and their arguments:
- book-a-cruise: Destination (region code), SailingDateRange ("YYYY-MM-DD/YYYY-MM-DD"), PassThruPorts (list of port codes), Ship (ship code), NumberOfGuests (number), EmbarkationPort (port code)
- pick-a-sailing: Number (1-based choice)
- proceed-with-sailing: YesNo ("yes" or "no")
- get-dob: Date ("YYYY-MM-DD")
- get-phone-number: PhoneNumber (digits only)
- find-cruise-deals: no arguments
- pick-cruise-deal: Number (1-based choice)
Omit arguments the user did not give. The conversation is currently waiting for: %s.`

// Resolution is a resolved utterance.
type Resolution struct {
	Intent    model.Intent   `json:"intent"`
	Arguments map[string]any `json:"arguments"`
}

// Resolver asks a language model to classify utterances.
type Resolver struct {
	client llm.Client
	model  string
	logger *logger.Logger
}

// NewResolver creates a resolver. An empty model uses the provider default.
func NewResolver(client llm.Client, modelName string, log *logger.Logger) *Resolver {
	return &Resolver{client: client, model: modelName, logger: log}
}

// Resolve classifies text given the dialog marker the conversation is waiting on.
func (r *Resolver) Resolve(ctx context.Context, text string, marker model.DialogMarker) (*Resolution, error) {
	waiting := string(marker)
	if waiting == "" {
		waiting = "a new request"
	}

	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Model:       r.model,
		System:      fmt.Sprintf(instructions, waiting),
		Messages:    []llm.ChatMessage{{Role: "user", Content: text}},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve utterance: %w", err)
	}

	res, err := parseResolution(resp.Content)
	if err != nil {
		r.logger.Warn("unreadable intent resolution",
			zap.String("provider", r.client.Name()),
			zap.String("content", resp.Content),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Debug("utterance resolved",
		zap.String("provider", r.client.Name()),
		zap.String("intent", string(res.Intent)),
		zap.Int("tokens_in", resp.TokensIn),
		zap.Int("tokens_out", resp.TokensOut),
		zap.Int64("latency_ms", resp.LatencyMs),
	)
	return res, nil
}

func parseResolution(content string) (*Resolution, error) {
	body := strings.TrimSpace(content)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}

	var res Resolution
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresolved, err)
	}
	if res.Intent == "" {
		return nil, fmt.Errorf("%w: no intent", ErrUnresolved)
	}
	if res.Arguments == nil {
		res.Arguments = map[string]any{}
	}
	return &res, nil
}
