package youtube

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// Branding is the subset of channel branding settings the service writes.
// Empty fields are left out of the request.
type Branding struct {
	Description         string
	Keywords            string
	UnsubscribedTrailer string
}

// Video describes an upload.
type Video struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// ChannelAPI is the subset of the YouTube Data API used for provisioning.
type ChannelAPI interface {
	UpdateBranding(ctx context.Context, channelID string, b Branding) error
	InsertBanner(ctx context.Context, image io.Reader, contentType string) (string, error)
	InsertVideo(ctx context.Context, v Video, media io.Reader) (string, error)
	GetChannel(ctx context.Context, channelID string) (*youtubeapi.Channel, error)
}

// GoogleChannels implements ChannelAPI with google.golang.org/api/youtube/v3.
type GoogleChannels struct {
	svc *youtubeapi.Service
}

var _ ChannelAPI = (*GoogleChannels)(nil)

func NewGoogleChannels(ctx context.Context, opts ...option.ClientOption) (*GoogleChannels, error) {
	svc, err := youtubeapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	return &GoogleChannels{svc: svc}, nil
}

func (g *GoogleChannels) UpdateBranding(ctx context.Context, channelID string, b Branding) error {
	channel := &youtubeapi.Channel{
		Id: channelID,
		BrandingSettings: &youtubeapi.ChannelBrandingSettings{
			Channel: &youtubeapi.ChannelSettings{
				Description:         b.Description,
				Keywords:            b.Keywords,
				UnsubscribedTrailer: b.UnsubscribedTrailer,
			},
		},
	}
	_, err := g.svc.Channels.Update([]string{"brandingSettings"}, channel).Context(ctx).Do()
	return err
}

// InsertBanner uploads a banner image and returns the hosted banner URL.
func (g *GoogleChannels) InsertBanner(ctx context.Context, image io.Reader, contentType string) (string, error) {
	resp, err := g.svc.ChannelBanners.
		Insert(&youtubeapi.ChannelBannerResource{}).
		Media(image, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return resp.Url, nil
}

// InsertVideo uploads a video and returns its id.
func (g *GoogleChannels) InsertVideo(ctx context.Context, v Video, media io.Reader) (string, error) {
	video := &youtubeapi.Video{
		Snippet: &youtubeapi.VideoSnippet{
			Title:       v.Title,
			Description: v.Description,
			Tags:        v.Tags,
			CategoryId:  v.CategoryID,
		},
		Status: &youtubeapi.VideoStatus{PrivacyStatus: v.Privacy},
	}
	resp, err := g.svc.Videos.Insert([]string{"snippet", "status"}, video).Media(media).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return resp.Id, nil
}

// GetChannel returns nil without error when the channel does not exist.
func (g *GoogleChannels) GetChannel(ctx context.Context, channelID string) (*youtubeapi.Channel, error) {
	resp, err := g.svc.Channels.
		List([]string{"snippet", "brandingSettings", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	return resp.Items[0], nil
}
