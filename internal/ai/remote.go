package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/engine"
)

const systemPrompt = `You are a no-limit Texas hold'em player. Reply with a single JSON object:
{"action": "fold"|"check"|"call"|"raise", "amount": <raise increment in chips, null unless raising>, "confidence": <number 0..1>, "reasoning": "<one short sentence>"}`

// ChatAdvisor asks an OpenAI-compatible chat completion endpoint to
// pick a move. Every transport, status and parsing problem comes back
// as an error so AdvisedAgent can fall through to the rules.
type ChatAdvisor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewChatAdvisor builds an advisor for the given endpoint. baseURL is
// the API root without the /chat/completions suffix. The key may be
// empty for local model servers.
func NewChatAdvisor(baseURL, apiKey, model string) *ChatAdvisor {
	return &ChatAdvisor{
		client:  &http.Client{Timeout: 45 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type advice struct {
	Action     string  `json:"action"`
	Amount     *int    `json:"amount"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Advise implements Advisor over HTTP
func (c *ChatAdvisor) Advise(ctx context.Context, snapshot engine.GameContext) (engine.Decision, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: promptFor(snapshot)},
		},
		Temperature:    0.7,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return engine.Decision{}, fmt.Errorf("encoding advisor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return engine.Decision{}, fmt.Errorf("building advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return engine.Decision{}, fmt.Errorf("advisor request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return engine.Decision{}, fmt.Errorf("reading advisor response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return engine.Decision{}, fmt.Errorf("advisor returned status %d: %s", resp.StatusCode, snippet(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return engine.Decision{}, fmt.Errorf("decoding advisor response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return engine.Decision{}, fmt.Errorf("advisor returned no choices")
	}

	return parseAdvice(parsed.Choices[0].Message.Content)
}

// promptFor renders the snapshot as the short table summary the model
// decides from
func promptFor(snapshot engine.GameContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s\n", snapshot.Phase)
	fmt.Fprintf(&b, "Your hole cards: %s\n", deck.Cards(snapshot.Player.Hole).Codes())
	if len(snapshot.Board) > 0 {
		fmt.Fprintf(&b, "Board: %s\n", deck.Cards(snapshot.Board).Codes())
	}
	fmt.Fprintf(&b, "Pot: %d\n", snapshot.Pot)
	fmt.Fprintf(&b, "Your chips: %d\n", snapshot.Player.Chips)
	fmt.Fprintf(&b, "To call: %d\n", snapshot.CallAmount())
	fmt.Fprintf(&b, "Minimum raise: %d\n", snapshot.MinimumBet)
	fmt.Fprintf(&b, "Position: %s\n", snapshot.Position)
	fmt.Fprintf(&b, "Players still in: %d\n", snapshot.ActivePlayers())
	return b.String()
}

// parseAdvice converts the model's reply into a Decision. Models wrap
// JSON in prose or code fences often enough that parsing falls back to
// the outermost brace pair.
func parseAdvice(content string) (engine.Decision, error) {
	raw := extractJSONObject(content)
	if raw == "" {
		return engine.Decision{}, fmt.Errorf("no JSON object in advisor reply %q", snippet(content))
	}

	var adv advice
	if err := json.Unmarshal([]byte(raw), &adv); err != nil {
		return engine.Decision{}, fmt.Errorf("decoding advisor reply: %w", err)
	}

	action, err := parseAction(adv.Action)
	if err != nil {
		return engine.Decision{}, err
	}

	d := engine.Decision{
		Action:     action,
		Confidence: adv.Confidence,
		Reasoning:  strings.TrimSpace(adv.Reasoning),
	}
	if d.Confidence <= 0 || d.Confidence > 1 {
		d.Confidence = 0.5
	}
	if action == engine.Raise {
		if adv.Amount == nil || *adv.Amount <= 0 {
			return engine.Decision{}, fmt.Errorf("advisor raise without a positive amount")
		}
		d.Amount = *adv.Amount
	}
	return d, nil
}

func parseAction(s string) (engine.Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	// Models say "bet" when nobody has bet yet; same move here.
	if name == "bet" {
		return engine.Raise, nil
	}
	return engine.ParseAction(name)
}

func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
