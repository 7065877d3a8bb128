package bot

import (
	"context"
	"errors"
	"fmt"

	"feedlinker/internal/opml"
	"feedlinker/internal/registry"
	"feedlinker/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMenuCommand(chatID int64) error {
	return b.sendMessageWithKeyboard(chatID, menuText, b.menuKeyboard)
}

func (b *Bot) handleListCommand(ctx context.Context, chatID int64) error {
	records, err := b.registry.List(ctx)
	if err != nil {
		return b.failed(chatID, fmt.Errorf("list feeds: %w", err))
	}

	if len(records) == 0 {
		return b.sendMessageWithKeyboard(chatID, emptyListText, b.returnKeyboard)
	}

	var errs []error
	for _, message := range formatFeedList(records) {
		if err = b.sendMessageWithKeyboard(chatID, message, b.returnKeyboard); err != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (b *Bot) handleExportCommand(ctx context.Context, chatID int64) error {
	doc, count, err := b.registry.Export(ctx)
	if err != nil {
		return b.failed(chatID, fmt.Errorf("export feeds: %w", err))
	}

	if count == 0 {
		return b.sendMessageWithKeyboard(chatID, emptyExportText, b.returnKeyboard)
	}

	if err = b.sendMessageWithKeyboard(chatID, fmt.Sprintf(exportingText, count), nil); err != nil {
		return fmt.Errorf("send message with keyboard: %w", err)
	}

	document := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: opml.FileName, Bytes: doc})
	document.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(b.returnKeyboard...)

	if _, err = b.rateLimiter.Send(document); err != nil {
		return fmt.Errorf("send document: %w", err)
	}

	b.log.InfoContext(ctx, "OPML is exported",
		"chatID", chatID,
		"feedCount", count,
		"size", len(doc))

	return nil
}

func (b *Bot) handleYouTubeCommand(ctx context.Context, chatID int64, arg string) error {
	res, err := b.registry.AddYouTube(ctx, arg)
	return b.replyAdded(chatID, res, err, youTubeUsageText)
}

func (b *Bot) handleThreadCommand(ctx context.Context, chatID int64, arg string) error {
	res, err := b.registry.AddThreads(ctx, arg)
	return b.replyAdded(chatID, res, err, threadUsageText)
}

func (b *Bot) handleNewsletterCommand(ctx context.Context, chatID int64, arg string) error {
	res, err := b.registry.AddNewsletter(ctx, arg)
	return b.replyAdded(chatID, res, err, newsletterUsageText)
}

func (b *Bot) handleRandomText(ctx context.Context, chatID int64, text string) error {
	entries := splitEntries(text)
	if len(entries) == 0 {
		return b.sendMessageWithKeyboard(chatID, welcomeText, b.menuKeyboard)
	}

	var errs []error
	for _, entry := range entries {
		res, err := b.registry.AddText(ctx, entry)
		if err = b.replyAdded(chatID, res, err, helpText); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (b *Bot) replyAdded(chatID int64, res registry.Result, err error, usage string) error {
	switch {
	case errors.Is(err, registry.ErrMissingArgument):
		return b.sendMessageWithKeyboard(chatID, usage, b.returnKeyboard)
	case errors.Is(err, store.ErrInvalidName):
		return b.sendMessageWithKeyboard(chatID, invalidNameText, b.returnKeyboard)
	case err != nil:
		return b.failed(chatID, fmt.Errorf("add feed: %w", err))
	}

	if err = b.sendMessageWithKeyboard(chatID, formatResult(res), b.returnKeyboard); err != nil {
		return fmt.Errorf("send message with keyboard: %w", err)
	}

	return nil
}

func (b *Bot) failed(chatID int64, err error) error {
	errs := []error{err}

	if sendErr := b.sendMessageWithKeyboard(chatID, failedText, b.returnKeyboard); sendErr != nil {
		errs = append(errs, fmt.Errorf("send message with keyboard: %w", sendErr))
	}

	return errors.Join(errs...)
}
