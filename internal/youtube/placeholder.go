package youtube

import (
	"log"
	"regexp"
)

// DefaultPlaceholderID is used when no master channel is configured.
const DefaultPlaceholderID = "PLACEHOLDER_CHANNEL_ID"

var channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)

// ValidChannelID reports whether id looks like a YouTube channel id.
func ValidChannelID(id string) bool {
	return channelIDPattern.MatchString(id)
}

// ChannelURL is the public URL reported after setup.
func ChannelURL(channelID string) string {
	return "https://youtube.com/channel/" + channelID
}

// PlaceholderChannel stands in for a channel that an operator still has to
// create by hand.
type PlaceholderChannel struct {
	ChannelID string
	Title     string
	URL       string
}

// Placeholders hands out placeholder channels at intake time. Channels can
// not be created through the API, so nothing remote happens here.
type Placeholders struct {
	MasterChannelID string
}

func (p Placeholders) Create(companyName string) PlaceholderChannel {
	id := p.MasterChannelID
	if id == "" {
		id = DefaultPlaceholderID
	}
	log.Printf("⚠️ Using placeholder channel %s for %s, the real channel is created manually", id, companyName)
	return PlaceholderChannel{
		ChannelID: id,
		Title:     companyName,
		URL:       "https://www.youtube.com/channel/" + id,
	}
}
