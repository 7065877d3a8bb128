package source

import (
	"fmt"
	"strings"

	"feedlinker/internal/domain"
)

const DefaultBaseURL = "https://rsshub.app"

//nolint:gochecknoglobals // Immutable default used by the package-level helpers.
var defaultDeriver = NewDeriver(DefaultBaseURL)

// Deriver maps identifiers to RSSHub routes. Identifiers are substituted
// verbatim, nothing is escaped.
type Deriver struct {
	baseURL string
}

func NewDeriver(baseURL string) *Deriver {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Deriver{baseURL: baseURL}
}

func (d *Deriver) BaseURL() string {
	return d.baseURL
}

// Derive builds the record for one of the free-text rules. Sources that only
// exist as explicit commands are routed to their own rule.
func (d *Deriver) Derive(src domain.Source, id string) domain.Record {
	switch src {
	case domain.SourceYouTube:
		return domain.Record{
			Title:   "YouTube: @" + id,
			XMLURL:  d.route("youtube/user/" + id),
			HTMLURL: "https://www.youtube.com/@" + id,
		}
	case domain.SourceThreads:
		return domain.Record{
			Title:   "Threads: " + id,
			XMLURL:  d.route("threads/" + id),
			HTMLURL: "https://www.threads.net/" + id,
		}
	case domain.SourceYouTubeChannel:
		return d.youTubeChannel(id)
	case domain.SourceThreadsProfile:
		return d.threadsProfile(id)
	case domain.SourceNewsletter:
		return d.newsletter(id)
	default:
		return d.Telegram(id)
	}
}

func (d *Deriver) Telegram(name string) domain.Record {
	return domain.Record{
		Title:   "Telegram: " + name,
		XMLURL:  d.TelegramFeedURL(name),
		HTMLURL: "https://t.me/" + name,
	}
}

func (d *Deriver) TelegramFeedURL(name string) string {
	return d.route("telegram/channel/" + name)
}

// TelegramName reverses TelegramFeedURL. It reports false for URLs that were
// not produced by the Telegram rule.
func (d *Deriver) TelegramName(xmlURL string) (string, bool) {
	name, ok := strings.CutPrefix(xmlURL, d.route("telegram/channel/"))
	if !ok || name == "" {
		return "", false
	}

	return name, true
}

// YouTubeChannel accepts a bare channel ID or any URL ending with it.
func (d *Deriver) YouTubeChannel(arg string) domain.Record {
	return d.youTubeChannel(YouTubeChannelID(arg))
}

func (d *Deriver) youTubeChannel(id string) domain.Record {
	return domain.Record{
		Title:   "YouTube: " + id,
		XMLURL:  d.route("youtube/channel/" + id),
		HTMLURL: "https://www.youtube.com/channel/" + id,
	}
}

func (d *Deriver) ThreadsProfile(arg string) domain.Record {
	return d.threadsProfile(ThreadsUsername(arg))
}

func (d *Deriver) threadsProfile(username string) domain.Record {
	return domain.Record{
		Title:   "Threads: @" + username,
		XMLURL:  d.route("threads/profile/" + username),
		HTMLURL: "https://www.threads.net/@" + username,
	}
}

// Newsletter takes a Substack URL and keeps only its subdomain.
func (d *Deriver) Newsletter(arg string) domain.Record {
	return d.newsletter(NewsletterSubdomain(arg))
}

func (d *Deriver) newsletter(subdomain string) domain.Record {
	return domain.Record{
		Title:   "Newsletter: " + subdomain,
		XMLURL:  d.route("substack/" + subdomain),
		HTMLURL: fmt.Sprintf("https://%s.substack.com", subdomain),
	}
}

func (d *Deriver) route(path string) string {
	return d.baseURL + "/" + path
}

// YouTubeChannelID keeps whatever follows the last slash.
func YouTubeChannelID(arg string) string {
	return afterLast(strings.TrimSpace(arg), "/")
}

func ThreadsUsername(arg string) string {
	return strings.ReplaceAll(strings.TrimSpace(arg), "@", "")
}

func NewsletterSubdomain(arg string) string {
	host := strings.TrimSpace(arg)
	host = strings.ReplaceAll(host, "https://", "")
	host = strings.ReplaceAll(host, "http://", "")

	subdomain, _, _ := strings.Cut(host, ".")
	return subdomain
}

func Derive(src domain.Source, id string) domain.Record {
	return defaultDeriver.Derive(src, id)
}

func YouTubeChannel(arg string) domain.Record {
	return defaultDeriver.YouTubeChannel(arg)
}

func ThreadsProfile(arg string) domain.Record {
	return defaultDeriver.ThreadsProfile(arg)
}

func Newsletter(arg string) domain.Record {
	return defaultDeriver.Newsletter(arg)
}
