// Файл: pkg/telegram/service.go
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultAPIURL = "https://api.telegram.org"

type ServiceInterface interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Service struct {
	botToken   string
	apiURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewService - клиент Bot API. Пустой apiURL означает api.telegram.org.
func NewService(botToken, apiURL string, logger *zap.Logger) ServiceInterface {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Service{
		botToken:   botToken,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// SendMessage экранирует текст под MarkdownV2 и отправляет его в чат.
func (s *Service) SendMessage(ctx context.Context, chatID int64, text string) error {
	return s.sendRequest(ctx, "sendMessage", &sendMessageRequest{
		ChatID:    chatID,
		Text:      EscapeTextForMarkdownV2(text),
		ParseMode: "MarkdownV2",
	})
}

func (s *Service) sendRequest(ctx context.Context, methodName string, payload interface{}) error {
	if s.botToken == "" {
		return fmt.Errorf("токен Telegram-бота не установлен")
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", s.apiURL, s.botToken, methodName)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки запроса в Telegram: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	s.logger.Debug("telegram", zap.String("method", methodName), zap.ByteString("response", body))

	// Bot API отвечает телом с ok=false и при 4xx, и при 5xx
	var telegramResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description,omitempty"`
		ErrorCode   int    `json:"error_code,omitempty"`
	}
	if err := json.Unmarshal(body, &telegramResp); err != nil {
		return fmt.Errorf("ошибка декодирования ответа Telegram API (HTTP %d): %w", resp.StatusCode, err)
	}
	if !telegramResp.OK {
		return fmt.Errorf("telegram API ошибка (%s): код %d, описание: %s", methodName, telegramResp.ErrorCode, telegramResp.Description)
	}
	return nil
}

func EscapeTextForMarkdownV2(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)",
		"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+",
		"-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}
