package domain

// Record is a single derived feed endpoint with its display metadata.
// XMLURL is the identity of a record inside a store.
type Record struct {
	Title   string `json:"title"`
	XMLURL  string `json:"xmlUrl"`
	HTMLURL string `json:"htmlUrl"`
}

// Source tells which derivation rule produced a record. It is never persisted.
type Source int

const (
	SourceTelegram Source = iota
	SourceYouTube
	SourceThreads
	SourceYouTubeChannel
	SourceThreadsProfile
	SourceNewsletter
)

func (s Source) String() string {
	switch s {
	case SourceTelegram:
		return "telegram"
	case SourceYouTube:
		return "youtube"
	case SourceThreads:
		return "threads"
	case SourceYouTubeChannel:
		return "youtube_channel"
	case SourceThreadsProfile:
		return "threads_profile"
	case SourceNewsletter:
		return "newsletter"
	default:
		return "unknown"
	}
}
