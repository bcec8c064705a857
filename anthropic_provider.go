package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"

	"github.com/rshep3087/stuffer/engine"
)

const anthropicMaxTokens = 1024

// AnthropicProvider implements AdvisorProvider for Anthropic's Claude API.
type AnthropicProvider struct {
	client *anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic advisor provider.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{
			Transport: newLoggingTransport(http.DefaultTransport, log.Default()),
		}),
	)

	return &AnthropicProvider{
		client: &client,
	}
}

// SuggestAllocations implements AdvisorProvider.
func (p *AnthropicProvider) SuggestAllocations(
	ctx context.Context,
	inflow *money.Money,
	envelopes []*engine.Envelope,
	bills []engine.Bill,
) ([]AllocationSuggestion, error) {
	prompt := p.buildPrompt(inflow, envelopes, bills)

	log.Debug("sending allocation request to Anthropic", "inflow", inflow.Display())

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     "claude-3-haiku-20240307", // Use faster, cheaper model for suggestions
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		log.Error("failed to call Anthropic API", "error", err)
		return nil, fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	var responseText string
	if len(response.Content) > 0 {
		responseText = response.Content[0].Text
	}

	if responseText == "" {
		return nil, errors.New("empty response from Anthropic API")
	}

	suggestions, err := p.parseResponse(responseText)
	if err != nil {
		log.Error("failed to parse Anthropic response", "error", err, "response", responseText)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	log.Debug("received allocation suggestions", "count", len(suggestions))
	return suggestions, nil
}

// buildPrompt constructs the prompt for allocation suggestions.
func (p *AnthropicProvider) buildPrompt(inflow *money.Money, envelopes []*engine.Envelope, bills []engine.Bill) string {
	envelopeInfo := formatEnvelopesForAdvisor(envelopes)
	billInfo := formatBillsForAdvisor(bills)

	return fmt.Sprintf(`You are a personal budgeting assistant using the envelope method.
A pay day of %s has arrived. Suggest how to allocate it across the envelopes below.

%s

%s

Please respond with ONLY a JSON array in this exact format:
[
  {
    "envelope_id": <number>,
    "amount": "<decimal amount, e.g. 150.00>",
    "reasoning": "<brief explanation>"
  }
]

Guidelines:
- Never allocate more than the pay amount in total
- Cover envelopes with bills due this cycle first
- Put leftover money toward envelopes with goals
- Keep reasoning brief (one sentence)
- Use at most one entry per envelope`, inflow.Display(), envelopeInfo, billInfo)
}

// parseResponse extracts the suggestion array from the AI response.
func (p *AnthropicProvider) parseResponse(response string) ([]AllocationSuggestion, error) {
	// Clean up the response - remove any markdown formatting or extra text
	response = strings.TrimSpace(response)

	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")

	if start == -1 || end == -1 {
		return nil, fmt.Errorf("no JSON array found in response: %s", response)
	}

	jsonStr := response[start : end+1]

	var suggestions []AllocationSuggestion
	if err := json.Unmarshal([]byte(jsonStr), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w (original: %s)", err, jsonStr)
	}

	return suggestions, nil
}
