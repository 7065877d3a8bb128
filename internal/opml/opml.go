package opml

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"feedlinker/internal/domain"
)

const (
	FileName     = "rssfeeds.opml"
	DefaultTitle = "RSS Feeds"
	version      = "2.0"
	outlineType  = "rss"
)

type document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    head     `xml:"head"`
	Body    body     `xml:"body"`
}

type head struct {
	Title string `xml:"title"`
}

type body struct {
	Outlines []outline `xml:"outline"`
}

type outline struct {
	Type    string `xml:"type,attr"`
	Text    string `xml:"text,attr"`
	Title   string `xml:"title,attr"`
	XMLURL  string `xml:"xmlUrl,attr"`
	HTMLURL string `xml:"htmlUrl,attr,omitempty"`
}

// Export renders records as an OPML 2.0 subscription list, one outline per
// record in the given order. Attribute values are XML-escaped.
func Export(title string, records []domain.Record) ([]byte, error) {
	if title == "" {
		title = DefaultTitle
	}

	doc := document{
		Version: version,
		Head:    head{Title: title},
		Body:    body{Outlines: make([]outline, 0, len(records))},
	}

	for _, r := range records {
		text := r.Title
		if text == "" {
			text = r.XMLURL
		}

		doc.Body.Outlines = append(doc.Body.Outlines, outline{
			Type:    outlineType,
			Text:    text,
			Title:   text,
			XMLURL:  r.XMLURL,
			HTMLURL: r.HTMLURL,
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
