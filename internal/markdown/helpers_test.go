package markdown_test

import (
	"testing"

	"feedlinker/internal/markdown"
)

func TestEscapeV2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "bbcnews", "bbcnews"},
		{"url", "https://rsshub.app/telegram/channel/bbc_news", `https://rsshub\.app/telegram/channel/bbc\_news`},
		{"prefix", "YouTube: @veritasium", "YouTube: @veritasium"},
		{"backslash", `a\b`, `a\\b`},
		{"multibyte", "notícias!", `notícias\!`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := markdown.EscapeV2(test.input); got != test.want {
				t.Errorf("Expected %q, got %q", test.want, got)
			}
		})
	}
}

func TestLink(t *testing.T) {
	got := markdown.Link("Telegram: bbc.news", "https://t.me/a(b)")
	want := `[Telegram: bbc\.news](https://t.me/a(b\))`

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
