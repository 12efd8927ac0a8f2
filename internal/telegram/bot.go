package telegram

import (
	"fmt"
	"strings"

	"go-leadgen-automation/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

// EscapeMarkdown escapes text for MarkdownV2.
func EscapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// FormatLead renders one ranked posting as a MarkdownV2 message.
func FormatLead(lead models.RankedPosting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔥 *%s*\n", EscapeMarkdown(orNA(lead.Title)))
	fmt.Fprintf(&b, "🏢 %s\n", EscapeMarkdown(orNA(lead.Company)))
	fmt.Fprintf(&b, "📍 %s · %s · %s\n",
		EscapeMarkdown(orNA(lead.Location)),
		EscapeMarkdown(orNA(lead.Field)),
		EscapeMarkdown(orNA(lead.Experience)),
	)
	if lead.Tags != "" {
		fmt.Fprintf(&b, "🛠 %s\n", EscapeMarkdown(lead.Tags))
	}
	fmt.Fprintf(&b, "🤖 Relevance: %s\n", EscapeMarkdown(fmt.Sprintf("%.3f", lead.RelevanceScore)))
	fmt.Fprintf(&b, "🔖 Source: %s\n", EscapeMarkdown(orNA(lead.Source)))
	return b.String()
}

func (b *Bot) SendLead(lead models.RankedPosting) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatLead(lead))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	if strings.HasPrefix(lead.Link, "http") {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", lead.Link),
			),
		)
	}

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
