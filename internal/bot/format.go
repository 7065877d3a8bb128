package bot

import (
	"fmt"
	"strings"

	"feedlinker/internal/domain"
	"feedlinker/internal/markdown"
	"feedlinker/internal/registry"
)

const telegramMessageMaxLength = 4096

func formatResult(res registry.Result) string {
	title := markdown.EscapeV2(res.Record.Title)
	url := markdown.EscapeV2(res.Record.XMLURL)

	switch res.Outcome {
	case registry.Added:
		return fmt.Sprintf("✅ *%s* is saved\\.\n\n🔗 %s", title, url)
	case registry.Duplicate:
		return fmt.Sprintf("ℹ️ *%s* is already saved\\.\n\n🔗 %s", title, url)
	default:
		return fmt.Sprintf("🔗 *%s*\n\n%s", title, url)
	}
}

// formatFeedList renders a numbered list, split so that no message exceeds
// the Telegram length limit.
func formatFeedList(records []domain.Record) []string {
	var messages []string
	var current strings.Builder

	header := fmt.Sprintf("📋 *Saved feeds \\(%d\\):*\n\n", len(records))
	current.WriteString(header)

	for i, r := range records {
		title := r.Title
		if title == "" {
			title = r.XMLURL
		}

		line := fmt.Sprintf("%d\\. %s\n", i+1, markdown.Link(title, r.XMLURL))

		if current.Len()+len(line) > telegramMessageMaxLength {
			messages = append(messages, current.String())
			current.Reset()
			current.WriteString("📋 *Saved feeds \\(continue\\)*\n\n")
		}

		current.WriteString(line)
	}

	return append(messages, current.String())
}
