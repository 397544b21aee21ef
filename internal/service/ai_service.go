package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const completionsURL = "https://api.openai.com/v1/chat/completions"

// departmentPrompts are the system prompts the proxy prepends per department
var departmentPrompts = map[string]string{
	"it":          "You are an AI assistant specialized in IT operations and service desk management. You help with access provisioning, asset management, ITSM workflows, ticket resolution, and technical support tasks.",
	"hr":          "You are an AI assistant specialized in HR and People Operations. You help with employee onboarding, offboarding, benefits administration, leave management, performance reviews, and HR policy questions.",
	"procurement": "You are an AI assistant specialized in Procurement and Vendor Management. You help with purchase requests, vendor onboarding, invoice processing, contract management, spend analysis, and supplier relationships.",
	"legal":       "You are an AI assistant specialized in Legal Operations and Compliance. You help with contract review, compliance monitoring, legal documentation, risk assessment, and policy management.",
	"finance":     "You are an AI assistant specialized in Finance and Accounting Operations. You help with invoice processing, expense management, budget tracking, financial reporting, audit trails, and account reconciliation.",
	"general":     "You are a helpful AI assistant for business operations. You provide clear, professional assistance across various business functions.",
}

// AIService proxies prompts to a hosted completion API. When no API key is
// configured it degrades to a fixed mock response instead of failing.
type AIService struct {
	apiKey string
	client *http.Client
	logger *slog.Logger
}

// NewAIService creates a new AI proxy service; an empty apiKey enables mock mode
func NewAIService(apiKey string, logger *slog.Logger) *AIService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AIService{
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

// ExecuteInput is one prompt execution request
type ExecuteInput struct {
	Prompt      string
	Department  string
	Context     string
	Temperature float64
	MaxTokens   int
}

// ExecuteResult is the completion outcome
type ExecuteResult struct {
	Result string
	TaskID string
	Model  string
	Mock   bool
}

// Departments lists the department keys the proxy knows prompts for
func Departments() []string {
	return []string{"it", "hr", "procurement", "legal", "finance", "general"}
}

// Execute forwards the prompt to the completion API, or returns a mock
// response when the API key is absent
func (s *AIService) Execute(ctx context.Context, input ExecuteInput) (*ExecuteResult, error) {
	if s.apiKey == "" {
		s.logger.Warn("AI API key not configured, returning mock response")
		return &ExecuteResult{
			Result: fmt.Sprintf(
				"[Mock Response] I understand you want help with: %q. This is a simulated response. Configure the AI API key to get real assistance.",
				input.Prompt,
			),
			TaskID: fmt.Sprintf("mock-%d", time.Now().UnixMilli()),
			Mock:   true,
		}, nil
	}

	systemPrompt, ok := departmentPrompts[strings.ToLower(input.Department)]
	if !ok {
		systemPrompt = departmentPrompts["general"]
	}

	messages := []map[string]string{
		{"role": "system", "content": systemPrompt},
	}
	if input.Context != "" {
		messages = append(messages, map[string]string{"role": "system", "content": "Additional context: " + input.Context})
	}
	messages = append(messages, map[string]string{"role": "user", "content": input.Prompt})

	temperature := input.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	payload, err := json.Marshal(map[string]any{
		"model":       "gpt-4",
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, completionsURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("completion API error",
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}

	var completion struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}

	result := "No response generated"
	if len(completion.Choices) > 0 && completion.Choices[0].Message.Content != "" {
		result = completion.Choices[0].Message.Content
	}

	s.logger.Info("AI task executed", slog.String("department", input.Department))

	return &ExecuteResult{
		Result: result,
		TaskID: completion.ID,
		Model:  completion.Model,
	}, nil
}
