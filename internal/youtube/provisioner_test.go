package youtube

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	youtubeapi "google.golang.org/api/youtube/v3"
)

type fakeTokens struct {
	err   error
	calls int
}

func (f *fakeTokens) EnsureValidToken(context.Context) error {
	f.calls++
	return f.err
}

type brandingCall struct {
	channelID string
	branding  Branding
}

type fakeChannels struct {
	mu          sync.Mutex
	branding    []brandingCall
	banners     []string
	videos      []Video
	videoBodies []string
	failOn      map[string]error
	channel     *youtubeapi.Channel
}

func newFakeChannels() *fakeChannels {
	return &fakeChannels{failOn: map[string]error{}}
}

func (f *fakeChannels) UpdateBranding(_ context.Context, channelID string, b Branding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := "branding"
	if b.UnsubscribedTrailer != "" {
		key = "trailer_branding"
	}
	if err := f.failOn[key]; err != nil {
		return err
	}
	f.branding = append(f.branding, brandingCall{channelID: channelID, branding: b})
	return nil
}

func (f *fakeChannels) InsertBanner(_ context.Context, image io.Reader, contentType string) (string, error) {
	if err := f.failOn["banner"]; err != nil {
		return "", err
	}
	data, _ := io.ReadAll(image)
	f.banners = append(f.banners, contentType+":"+string(data))
	return "https://yt3.example/banner", nil
}

func (f *fakeChannels) InsertVideo(_ context.Context, v Video, media io.Reader) (string, error) {
	if err := f.failOn["video"]; err != nil {
		return "", err
	}
	data, _ := io.ReadAll(media)
	f.videos = append(f.videos, v)
	f.videoBodies = append(f.videoBodies, string(data))
	return "vid-123", nil
}

func (f *fakeChannels) GetChannel(_ context.Context, channelID string) (*youtubeapi.Channel, error) {
	if err := f.failOn["get"]; err != nil {
		return nil, err
	}
	return f.channel, nil
}

func (f *fakeChannels) remoteCalls() int {
	return len(f.branding) + len(f.banners) + len(f.videos)
}

type fakeFetcher struct {
	assets map[string]string
	types  map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*Asset, error) {
	body, ok := f.assets[url]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return &Asset{Body: io.NopCloser(strings.NewReader(body)), ContentType: f.types[url]}, nil
}

const testChannelID = "UC1234567890abcdefghij_-"

func newTestProvisioner() (*Provisioner, *fakeTokens, *fakeChannels) {
	tokens := &fakeTokens{}
	channels := newFakeChannels()
	fetcher := &fakeFetcher{
		assets: map[string]string{
			"https://cdn.example/banner.png":  "PNGDATA",
			"https://cdn.example/trailer.mp4": "MP4DATA",
		},
		types: map[string]string{"https://cdn.example/trailer.mp4": "video/mp4"},
	}
	return NewProvisioner(tokens, channels, fetcher), tokens, channels
}

func TestSetupChannel_BrandingOnly(t *testing.T) {
	p, tokens, channels := newTestProvisioner()

	result, err := p.SetupChannel(context.Background(), SetupRequest{
		ChannelID:   testChannelID,
		Title:       "Acme",
		Description: "We build rockets",
		Keywords:    []string{"rockets", "space"},
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, Updates{Description: true, Keywords: true}, result.Updates)
	assert.Equal(t, "https://youtube.com/channel/"+testChannelID, result.ChannelURL)
	assert.Equal(t, 1, tokens.calls)
	require.Len(t, channels.branding, 1)
	assert.Equal(t, "rockets, space", channels.branding[0].branding.Keywords)
	assert.Empty(t, channels.banners)
	assert.Empty(t, channels.videos)
}

func TestSetupChannel_AllSteps(t *testing.T) {
	p, _, channels := newTestProvisioner()

	result, err := p.SetupChannel(context.Background(), SetupRequest{
		ChannelID:   testChannelID,
		Title:       "Acme",
		Description: "We build rockets",
		Keywords:    []string{"rockets"},
		BannerURL:   "https://cdn.example/banner.png",
		TrailerURL:  "https://cdn.example/trailer.mp4",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, Updates{Description: true, Keywords: true, Banner: true, Trailer: true}, result.Updates)
	assert.Equal(t, []string{"image/png:PNGDATA"}, channels.banners)

	require.Len(t, channels.videos, 1)
	assert.Equal(t, "Acme - Channel Trailer", channels.videos[0].Title)
	assert.Equal(t, "22", channels.videos[0].CategoryID)
	assert.Equal(t, "public", channels.videos[0].Privacy)
	assert.Equal(t, "MP4DATA", channels.videoBodies[0])

	require.Len(t, channels.branding, 2)
	trailer := channels.branding[1].branding
	assert.Equal(t, "vid-123", trailer.UnsubscribedTrailer)
	assert.Equal(t, "We build rockets", trailer.Description)
	assert.Equal(t, "rockets", trailer.Keywords)
}

func TestSetupChannel_TruncatesDescription(t *testing.T) {
	p, _, channels := newTestProvisioner()

	_, err := p.SetupChannel(context.Background(), SetupRequest{
		ChannelID:   testChannelID,
		Description: strings.Repeat("é", 1500),
	})
	require.NoError(t, err)
	assert.Len(t, []rune(channels.branding[0].branding.Description), 1000)
}

func TestSetupChannel_TokenFailurePropagatesUnchanged(t *testing.T) {
	p, tokens, channels := newTestProvisioner()
	tokens.err = errors.New("not authorized")

	_, err := p.SetupChannel(context.Background(), SetupRequest{ChannelID: testChannelID})
	assert.Equal(t, tokens.err, err)
	assert.False(t, errors.Is(err, ErrProvisioning))
	assert.Zero(t, channels.remoteCalls())
}

func TestSetupChannel_PartialResultOnFailure(t *testing.T) {
	cases := []struct {
		name    string
		failOn  string
		step    string
		updates Updates
	}{
		{"branding", "branding", StepBranding, Updates{}},
		{"banner", "banner", StepBanner, Updates{Description: true, Keywords: true}},
		{"trailer upload", "video", StepTrailerUpload, Updates{Description: true, Keywords: true, Banner: true}},
		{"trailer assign", "trailer_branding", StepTrailerAssign, Updates{Description: true, Keywords: true, Banner: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _, channels := newTestProvisioner()
			channels.failOn[tc.failOn] = errors.New("quota exceeded")

			result, err := p.SetupChannel(context.Background(), SetupRequest{
				ChannelID:  testChannelID,
				Title:      "Acme",
				BannerURL:  "https://cdn.example/banner.png",
				TrailerURL: "https://cdn.example/trailer.mp4",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProvisioning)

			var perr *ProvisioningError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.step, perr.Step)
			assert.Equal(t, tc.updates, perr.Result.Updates)
			assert.False(t, perr.Result.Success)
			assert.Equal(t, tc.updates, result.Updates)
			assert.Contains(t, err.Error(), "quota exceeded")
		})
	}
}

func TestSetupChannel_AssetDownloadFailure(t *testing.T) {
	p, _, channels := newTestProvisioner()

	_, err := p.SetupChannel(context.Background(), SetupRequest{
		ChannelID: testChannelID,
		BannerURL: "https://cdn.example/missing.png",
	})
	var perr *ProvisioningError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, StepBanner, perr.Step)
	assert.Empty(t, channels.banners)
}

func TestChannelInfo(t *testing.T) {
	p, tokens, channels := newTestProvisioner()
	channels.channel = &youtubeapi.Channel{Id: testChannelID}

	ch, err := p.ChannelInfo(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Equal(t, testChannelID, ch.Id)
	assert.Equal(t, 1, tokens.calls)

	tokens.err = errors.New("expired")
	_, err = p.ChannelInfo(context.Background(), testChannelID)
	assert.Error(t, err)
}

func TestValidChannelID(t *testing.T) {
	valid := []string{
		"UC1234567890abcdefghij_-",
		"UCxxxxxxxxxxxxxxxxxxxxxx",
		"UC_-_-_-_-_-_-_-_-_-_-_-",
	}
	invalid := []string{
		"",
		"PLACEHOLDER_CHANNEL_ID",
		"UC123",
		"UC1234567890abcdefghij_-x",
		"uc1234567890abcdefghij_-",
		"UC1234567890abcdefghij!-",
		"XX1234567890abcdefghij_-",
		" UC1234567890abcdefghij_-",
	}
	for _, id := range valid {
		assert.True(t, ValidChannelID(id), id)
	}
	for _, id := range invalid {
		assert.False(t, ValidChannelID(id), id)
	}
}

func TestPlaceholders(t *testing.T) {
	ch := Placeholders{}.Create("Acme")
	assert.Equal(t, DefaultPlaceholderID, ch.ChannelID)
	assert.Equal(t, "Acme", ch.Title)
	assert.Equal(t, "https://www.youtube.com/channel/PLACEHOLDER_CHANNEL_ID", ch.URL)

	ch = Placeholders{MasterChannelID: "UCmaster"}.Create("Globex")
	assert.Equal(t, "UCmaster", ch.ChannelID)
	assert.Equal(t, "https://www.youtube.com/channel/UCmaster", ch.URL)
}
