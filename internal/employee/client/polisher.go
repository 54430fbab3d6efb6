package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/newwork/people-service/pkg/config"
	apperrors "github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/logger"
)

const polishSystemPrompt = "You are a writing assistant for workplace peer feedback. " +
	"Rewrite the feedback the user provides so it is constructive, specific, and professional. " +
	"Preserve the original meaning and any concrete examples. Reply with the rewritten feedback only."

// PolisherClient calls a chat-completions endpoint to rewrite draft feedback
type PolisherClient struct {
	cfg        config.PolisherConfig
	httpClient *http.Client
	logger     *logger.Logger
}

// NewPolisherClient creates a new text-polishing client
func NewPolisherClient(cfg config.PolisherConfig, log *logger.Logger) *PolisherClient {
	return &PolisherClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Polish rewrites the given text through the configured model
func (c *PolisherClient) Polish(ctx context.Context, text string) (string, error) {
	if !c.cfg.Enabled {
		return "", apperrors.ServiceDisabled("text polishing is disabled")
	}

	payload, err := json.Marshal(chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: polishSystemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.APIURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.Debug().
		Str("model", c.cfg.Model).
		Int("text_length", len(text)).
		Msg("calling polisher endpoint")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.logger.Error().Err(err).Msg("polisher request timed out")
			return "", apperrors.UpstreamTimeout("the polishing service took too long to respond")
		}
		c.logger.Error().Err(err).Msg("failed to call polisher endpoint")
		return "", apperrors.Upstream("failed to reach the polishing service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Interface("error", errBody).
			Msg("polisher endpoint returned an error")
		return "", apperrors.Upstream(fmt.Sprintf("polishing service returned status %d", resp.StatusCode))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", apperrors.Upstream("failed to decode polishing service response")
	}
	if len(completion.Choices) == 0 {
		return "", apperrors.Upstream("polishing service returned no completion")
	}

	polished := strings.TrimSpace(completion.Choices[0].Message.Content)
	if polished == "" {
		return "", apperrors.Upstream("polishing service returned an empty completion")
	}
	return polished, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
