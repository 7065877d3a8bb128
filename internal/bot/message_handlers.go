package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"mvdan.cc/xurls/v2"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	action := tgbotapi.ChatTyping
	if message.Command() == "export" || message.Command() == "exportar" {
		action = tgbotapi.ChatUploadDocument
	}

	return b.withSpinner(ctx, chatID, action, func() error {
		if !message.IsCommand() {
			return b.handleRandomText(ctx, chatID, message.Text)
		}

		arg := commandArgument(message.CommandArguments())

		switch message.Command() {
		case "start":
			return b.sendMessageWithKeyboard(chatID, welcomeText, b.menuKeyboard)
		case "help":
			return b.sendMessageWithKeyboard(chatID, helpText, b.menuKeyboard)
		case "menu":
			return b.handleMenuCommand(chatID)
		case "list", "canais":
			return b.handleListCommand(ctx, chatID)
		case "export", "exportar":
			return b.handleExportCommand(ctx, chatID)
		case "youtube":
			return b.handleYouTubeCommand(ctx, chatID, arg)
		case "thread", "threads":
			return b.handleThreadCommand(ctx, chatID, arg)
		case "newsletter":
			return b.handleNewsletterCommand(ctx, chatID, arg)
		default:
			return b.sendMessageWithKeyboard(chatID, unknownCommandText, b.menuKeyboard)
		}
	})
}

// commandArgument keeps only the first whitespace-separated word.
func commandArgument(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// splitEntries turns a message into identifiers. A message with several
// https links yields one entry per link; anything else is a single entry.
func splitEntries(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err != nil {
		return []string{text}
	}

	urls := httpsURLRe.FindAllString(text, -1)
	if len(urls) < 2 {
		return []string{text}
	}

	return lo.Uniq(urls)
}
