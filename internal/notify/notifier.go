// Package notify delivers advisories to Telegram chats.
package notify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Telegram allows a bot roughly 30 messages per second across all chats.
const defaultRate = rate.Limit(30)

// sender is the interface satisfied by TelegramClient.
type sender interface {
	Send(ctx context.Context, chatID, text string) error
}

// Delivery is the outcome of sending to one chat.
type Delivery struct {
	ChatID string `json:"chat_id"`
	Err    error  `json:"-"`
}

// OK reports whether the message was accepted.
func (d Delivery) OK() bool { return d.Err == nil }

// Notifier sends one message to every configured chat, one after another.
type Notifier struct {
	sender  sender
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewNotifier constructs a Notifier paced for the Telegram bot API.
func NewNotifier(client *TelegramClient, log *slog.Logger) *Notifier {
	return NewNotifierWithSender(client, rate.NewLimiter(defaultRate, 1), log)
}

// NewNotifierWithSender constructs a Notifier with an injectable sender and limiter (used in tests).
func NewNotifierWithSender(s sender, limiter *rate.Limiter, log *slog.Logger) *Notifier {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Notifier{sender: s, limiter: limiter, log: log}
}

// Broadcast sends text to each chat in order. A failed chat is logged and
// recorded in its Delivery; the remaining chats are still attempted.
func (n *Notifier) Broadcast(ctx context.Context, text string, chats []string) []Delivery {
	deliveries := make([]Delivery, 0, len(chats))
	for _, chatID := range chats {
		start := time.Now()

		err := n.limiter.Wait(ctx)
		if err == nil {
			err = n.sender.Send(ctx, chatID, text)
		}
		if err != nil {
			n.log.Error("telegram delivery failed", "chat_id", chatID, "err", err)
		} else {
			n.log.Info("telegram delivery succeeded", "chat_id", chatID, "duration", time.Since(start))
		}

		deliveries = append(deliveries, Delivery{ChatID: chatID, Err: err})
	}
	return deliveries
}
