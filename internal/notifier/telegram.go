package notifier

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"MarketBulletin/internal/collector"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *resty.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	c := resty.New().SetTimeout(40 * time.Second)
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  defaultAPIBase,
		Client:   c,
	}
}

func (t *TelegramNotifier) endpoint(method string) string {
	base := t.APIBase
	if base == "" {
		base = defaultAPIBase
	}
	return fmt.Sprintf("%s/bot%s/%s", base, t.BotToken, method)
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *TelegramNotifier) check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	resp, err := t.Client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id":    t.ChatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		SetResult(&apiResponse{}).
		Post(t.endpoint("sendMessage"))
	return t.check(resp, err)
}

// SendDocument uploads a report artifact with an optional caption.
func (t *TelegramNotifier) SendDocument(ctx context.Context, path, caption string) error {
	resp, err := t.Client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": t.ChatID,
			"caption": caption,
		}).
		SetFile("document", path).
		Post(t.endpoint("sendDocument"))
	if err := t.check(resp, err); err != nil {
		return fmt.Errorf("send %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := collector.DoublingBackoff(i+1, time.Second)
		zap.L().Warn("telegram send failed",
			zap.Int("attempt", i+1), zap.Int("max", maxRetries+1),
			zap.Duration("backoff", backoff), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
