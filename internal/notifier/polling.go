package notifier

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message"`
}

const pollTimeout = 30

type updatesResponse struct {
	OK     bool             `json:"ok"`
	Result []telegramUpdate `json:"result"`
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// The server holds each request for up to pollTimeout seconds.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	log := zap.L().Named("telegram")

	for {
		select {
		case <-ctx.Done():
			log.Info("polling stopped")
			return
		default:
		}

		var result updatesResponse
		resp, err := t.Client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"offset":  strconv.Itoa(offset),
				"timeout": strconv.Itoa(pollTimeout),
			}).
			SetResult(&result).
			Get(t.endpoint("getUpdates"))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("polling request failed", zap.Error(err))
			sleep(ctx, 5*time.Second)
			continue
		}
		if resp.IsError() {
			log.Warn("polling rejected", zap.Int("status", resp.StatusCode()))
			sleep(ctx, 5*time.Second)
			continue
		}

		offset = t.dispatch(ctx, result.Result, offset, handler)
	}
}

// dispatch answers every command in updates and returns the next offset.
func (t *TelegramNotifier) dispatch(ctx context.Context, updates []telegramUpdate, offset int, handler CommandHandler) int {
	for _, update := range updates {
		offset = update.UpdateID + 1
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		text := strings.TrimSpace(update.Message.Text)
		zap.L().Info("received command", zap.String("command", text))
		reply := handler(text)
		if reply != "" {
			if err := t.Send(ctx, reply); err != nil {
				zap.L().Error("send reply failed", zap.Error(err))
			}
		}
	}
	return offset
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
