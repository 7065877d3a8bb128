package source

import (
	"strings"

	"feedlinker/internal/domain"
)

const (
	youTubeHandlePrefix = "https://www.youtube.com/@"
	threadsHost         = "threads.net"
)

// Classify picks the derivation rule for free text and extracts the
// identifier it operates on. It never fails: anything that is not a YouTube
// handle URL or a Threads link is treated as a Telegram channel name.
func Classify(text string) (domain.Source, string) {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, youTubeHandlePrefix):
		return domain.SourceYouTube, afterLast(text, "@")
	case strings.Contains(text, threadsHost):
		return domain.SourceThreads, strings.TrimSpace(afterLast(text, "/"))
	default:
		return domain.SourceTelegram, strings.TrimLeft(text, "@")
	}
}

func afterLast(s, sep string) string {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s
	}

	return s[i+len(sep):]
}
