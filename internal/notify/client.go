// Package notify sends theft alerts via the Telegram Bot API. It formats
// high-priority theft events into a MarkdownV2 message and delivers it with
// bounded retry, so a flaky network never aborts the analysis run that
// produced the events.
package notify

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// Client handles Telegram theft alerts
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendTheftAlert sends an alert for the given theft events. Callers should
// pass only the events worth waking someone for (priority 1).
func (c *Client) SendTheftAlert(events []models.TheftEvent) error {
	if len(events) == 0 {
		return nil
	}
	message := formatTheftAlert(events)

	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send alert after %d retries: %w", c.maxRetries, lastErr)
}

// formatTheftAlert formats theft events into a Telegram message
func formatTheftAlert(events []models.TheftEvent) string {
	message := "🚨 *Fuel Theft Alert*\n\n"
	message += fmt.Sprintf("Detected: %s\n\n", escapeMarkdownV2(events[0].Timestamp.Format("2006-01-02 15:04:05")))

	var totalValue float64
	for i, ev := range events {
		totalValue += ev.EstimatedTheftValue

		levelEmoji := "⚠️"
		if ev.ThreatLevel == models.ThreatCritical {
			levelEmoji = "🔴"
		}

		vehicle := escapeMarkdownV2(ev.VehicleID)
		gallons := escapeMarkdownV2(fmt.Sprintf("%.1f gal", ev.FuelGallonsConsumed))
		mpg := escapeMarkdownV2(fmt.Sprintf("%.2f MPG (rated %.1f)", ev.CalculatedMPG, ev.RatedMPG))
		value := escapeMarkdownV2(fmt.Sprintf("$%.2f", ev.EstimatedTheftValue))

		message += fmt.Sprintf("%d\\. %s *%s*\n", i+1, levelEmoji, vehicle)
		message += fmt.Sprintf("   %s threat, priority %d\n", escapeMarkdownV2(string(ev.ThreatLevel)), ev.InvestigationPriority)
		message += fmt.Sprintf("   Fuel: %s at %s\n", gallons, mpg)
		message += fmt.Sprintf("   Estimated value: %s\n\n", value)
	}

	message += fmt.Sprintf("Total estimated loss: %s", escapeMarkdownV2(fmt.Sprintf("$%.2f", totalValue)))
	return message
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
