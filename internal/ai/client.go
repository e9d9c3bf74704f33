// Package ai wraps the Azure OpenAI chat-completions endpoint behind the small
// set of assistance operations the editor offers: text enhancement, tiered
// summaries, methodology critique and title review.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docedit/internal/config"
)

// ErrNotConfigured is returned by every operation when the endpoint or API
// key is missing. Callers treat it as "feature unavailable", not a failure.
var ErrNotConfigured = errors.New("azure openai is not configured")

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 3000
)

// SummaryLength selects how detailed a generated summary should be.
type SummaryLength string

const (
	SummaryShort    SummaryLength = "short"
	SummaryMedium   SummaryLength = "medium"
	SummaryDetailed SummaryLength = "detailed"
)

type summaryTier struct {
	system    string
	maxTokens int
}

var summaryTiers = map[SummaryLength]summaryTier{
	SummaryShort: {
		system:    "You are an epidemiologist. Create a high-level summary in 50 words or less based on this text.",
		maxTokens: 50,
	},
	SummaryMedium: {
		system:    "You are an epidemiologist. Create a high-level summary in 100 words or less based on this text.",
		maxTokens: 150,
	},
	SummaryDetailed: {
		system:    "You are an epidemiologist. Create a high-level summary in 150 words or less based on this text.",
		maxTokens: 250,
	},
}

// Critique is the result of a methodology review.
type Critique struct {
	ResearchQuestion string `json:"research_question"`
	Review           string `json:"review"`
}

// Client talks to a single Azure OpenAI deployment. The zero value is not
// usable; construct with NewClient.
type Client struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
}

// NewClient builds a client from configuration. A client with missing
// credentials is still returned; its operations fail with ErrNotConfigured.
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Configured reports whether the client has enough configuration to make
// requests.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.apiKey != "" && c.deployment != ""
}

// Enhance asks the model to rework the text as a journal editor would.
// maxWords caps the length of the suggestion; zero means no explicit cap.
func (c *Client) Enhance(ctx context.Context, text string, maxWords int) (string, error) {
	maxTokens := defaultMaxTokens
	if maxWords > 0 {
		maxTokens = int(float64(maxWords) * 1.3)
	}
	return c.complete(ctx,
		"You are a professional epidemiological journal editor. Analyze the following text and suggest improvements.",
		text, maxTokens)
}

// Summarize produces a high-level summary at the requested length. Unknown
// lengths fall back to the short tier.
func (c *Client) Summarize(ctx context.Context, text string, length SummaryLength) (string, error) {
	tier, ok := summaryTiers[SummaryLength(strings.ToLower(string(length)))]
	if !ok {
		tier = summaryTiers[SummaryShort]
	}
	return c.complete(ctx, tier.system, text, tier.maxTokens)
}

// Critique extracts the document's research question and reviews the
// methodology against it. When no research question can be identified the
// review step is skipped.
func (c *Client) Critique(ctx context.Context, text string) (*Critique, error) {
	question, err := c.complete(ctx,
		"You are a PhD level science research expert.",
		fmt.Sprintf("You are a PhD-level researcher in epidemiology. Extract the main research question from the following text. If there is no explicit question, please infer the most likely research question based on the content.\nText: %s", text),
		100)
	if err != nil {
		return nil, fmt.Errorf("extract research question: %w", err)
	}

	if question == "" || strings.EqualFold(strings.TrimSpace(question), "no research question found") {
		return &Critique{
			ResearchQuestion: "Could not extract research question.",
			Review:           "Cannot perform a critical review without a valid research question.",
		}, nil
	}

	review, err := c.complete(ctx,
		"You are a PhD statistician/econometrician.",
		fmt.Sprintf(`You are a PhD-level statistician or econometrician. Critically evaluate the methodology of the following paper %s in the context of the research question %s.
The content might fall under an explicitly described methods section or be randomly placed in the text.
Provide a detailed review that includes:
- The appropriateness of the method to answer the research question
- Any limitations or potential biases of the methods used
- Suggestions for improving methodology
- Recommendations for alternative approaches if applicable`, text, question),
		500)
	if err != nil {
		return nil, fmt.Errorf("critical review: %w", err)
	}

	return &Critique{ResearchQuestion: question, Review: review}, nil
}

// AnalyzeTitle reviews the document title against its content.
func (c *Client) AnalyzeTitle(ctx context.Context, title, text string) (string, error) {
	return c.complete(ctx,
		"You are an experienced scientific journal editor.",
		fmt.Sprintf(`You are a scientific journal editor. Analyze the following title in relation to the paper's content:
Title: %s
Paper content: %s
Please evaluate:
1. Clarity and conciseness
2. Accuracy in reflecting the paper's content
3. Use of appropriate keywords
4. SEO-friendliness
5. Adherence to scientific paper title conventions
6. Relevant time period if warranted
7. Whether it accurately communicates the main findings/methodology

Provide specific recommendations for improvement if needed.`, title, text),
		100)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: defaultTemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion failed: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
