package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackMenu       = "menu"
	callbackMenuList   = "menu_list"
	callbackMenuExport = "menu_export"
	callbackMenuHelp   = "menu_help"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	chatID := callback.Message.Chat.ID
	data := strings.TrimSpace(callback.Data)

	action := tgbotapi.ChatTyping
	if data == callbackMenuExport {
		action = tgbotapi.ChatUploadDocument
	}

	return b.withSpinner(ctx, chatID, action, func() error {
		switch data {
		case callbackMenu:
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleMenuCommand(chatID)
			})
		case callbackMenuList:
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleListCommand(ctx, chatID)
			})
		case callbackMenuExport:
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleExportCommand(ctx, chatID)
			})
		case callbackMenuHelp:
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.sendMessageWithKeyboard(chatID, helpText, b.returnKeyboard)
			})
		}

		return b.errorCallbackAnswer(callback, fmt.Errorf("unknown callback data: %q", data))
	})
}

func (b *Bot) withEmptyCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	fn func() error,
) error {
	var errs []error

	if _, err := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		errs = append(errs, b.errorCallbackAnswer(callback, fmt.Errorf("send request: %w", err)))
	}

	if err := fn(); err != nil {
		errs = append(errs, fmt.Errorf("call fn: %w", err))
	}

	return errors.Join(errs...)
}

func (b *Bot) errorCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	err error,
) error {
	if _, sendErr := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "❌ Failed.")); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send request: %w", sendErr))
	}
	return err
}
