package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/timmy/artvault/internal/logger"
	"github.com/timmy/artvault/internal/session"
)

const artMasterSystemPrompt = `You are Art Master, a warm and knowledgeable guide to visual art.
You help visitors understand artworks, artists, techniques, and art history.
Answer concisely and conversationally. When you do not know something, say so
instead of inventing facts.`

// ChatService runs multi-turn conversations with the art-master assistant,
// keeping per-session history in a bounded store.
type ChatService struct {
	client   *resty.Client
	model    string
	endpoint string
	sessions *session.Store
}

// ChatConfig holds configuration for the chat service.
type ChatConfig struct {
	Model           string
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	SessionCapacity int
	SessionTTL      time.Duration
}

// NewChatService creates the art-master chat service.
func NewChatService(cfg *ChatConfig) *ChatService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &ChatService{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
		sessions: session.NewStore(cfg.SessionCapacity, cfg.SessionTTL),
	}
}

type chatRequest struct {
	Model    string            `json:"model"`
	Messages []session.Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends one user turn within a session and returns the assistant reply
// and the session ID (newly minted when the caller passed none).
func (s *ChatService) Chat(ctx context.Context, sessionID, userMessage string) (string, string, error) {
	if userMessage == "" {
		return "", "", &InvalidPromptError{Err: fmt.Errorf("empty chat message")}
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	log := logger.FromContext(ctx).WithField(logger.FieldSessionID, sessionID)

	history := s.sessions.Get(sessionID)
	messages := make([]session.Message, 0, len(history)+2)
	messages = append(messages, session.Message{Role: "system", Content: artMasterSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, session.Message{Role: "user", Content: userMessage})

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(chatRequest{Model: s.model, Messages: messages}).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", sessionID, fmt.Errorf("failed to call chat API: %w", err)
	}
	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return "", sessionID, fmt.Errorf("chat API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", sessionID, fmt.Errorf("chat API returned error: HTTP %d", httpResp.StatusCode())
	}
	if len(resp.Choices) == 0 {
		return "", sessionID, fmt.Errorf("no response from chat API")
	}

	reply := resp.Choices[0].Message.Content
	s.sessions.Append(sessionID,
		session.Message{Role: "user", Content: userMessage},
		session.Message{Role: "assistant", Content: reply},
	)
	log.Debug("chat turn completed")

	return reply, sessionID, nil
}

// EndSession drops a session's history.
func (s *ChatService) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}
