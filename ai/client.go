// Package ai wraps an OpenAI-compatible chat-completions API used to draft
// blog titles, content, and excerpts for the admin dashboard.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a content-generation client. baseURL defaults to the
// OpenAI API when empty.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
	MaxTokens   int                     `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

// GenerateBlogContent drafts a full post about the topic in the given writing
// style. The model is asked for a JSON blob with title, metaDescription and
// content fields; the raw text is returned for the admin UI to paste from.
func (c *Client) GenerateBlogContent(ctx context.Context, topic, style string) (string, error) {
	if style == "" {
		style = "minimalist"
	}

	req := chatCompletionRequest{
		Model: "gpt-4",
		Messages: []chatCompletionMessage{
			{
				Role:    "system",
				Content: fmt.Sprintf("You are a skilled blog writer with a %s writing style. Write engaging, thoughtful content that is SEO-optimized and easy to read.", style),
			},
			{
				Role: "user",
				Content: fmt.Sprintf(`Write a blog post about: %s. Include:
- An engaging title
- A compelling introduction
- 3-5 main sections with subheadings
- A conclusion
- Meta description for SEO (max 160 characters)

Format the response as JSON with fields: title, metaDescription, content (HTML formatted)`, topic),
			},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}

	return c.createChatCompletion(ctx, req)
}

// GenerateExcerpt summarizes post content into a short, click-worthy excerpt.
func (c *Client) GenerateExcerpt(ctx context.Context, content string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = 200
	}
	if len(content) > 1000 {
		content = content[:1000]
	}

	req := chatCompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []chatCompletionMessage{
			{
				Role:    "user",
				Content: fmt.Sprintf("Summarize this blog content in %d characters or less, making it engaging and click-worthy: %s", maxLength, content),
			},
		},
		Temperature: 0.5,
		MaxTokens:   100,
	}

	return c.createChatCompletion(ctx, req)
}

func (c *Client) createChatCompletion(ctx context.Context, reqData chatCompletionRequest) (string, error) {
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to serialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, string(body))
	}

	var completionResp chatCompletionResponse
	if err := json.Unmarshal(body, &completionResp); err != nil {
		return "", fmt.Errorf("failed to decode API response: %w", err)
	}

	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned by the API")
	}
	return completionResp.Choices[0].Message.Content, nil
}
