package fileconv

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedSummary describes an XML source that turned out to be an RSS or Atom
// feed.
type FeedSummary struct {
	Type      string `json:"type"`
	Version   string `json:"version,omitempty"`
	Title     string `json:"title,omitempty"`
	ItemCount int    `json:"itemCount"`
	Latest    string `json:"latest,omitempty"`
}

// summarizeFeed parses raw as a feed. It returns nil for anything that is not
// a feed.
func summarizeFeed(raw string) *FeedSummary {
	if gofeed.DetectFeedType(strings.NewReader(raw)) == gofeed.FeedTypeUnknown {
		return nil
	}
	feed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil
	}
	summary := &FeedSummary{
		Type:      feed.FeedType,
		Version:   feed.FeedVersion,
		Title:     strings.TrimSpace(feed.Title),
		ItemCount: len(feed.Items),
	}
	if len(feed.Items) > 0 {
		summary.Latest = strings.TrimSpace(feed.Items[0].Title)
	}
	return summary
}
