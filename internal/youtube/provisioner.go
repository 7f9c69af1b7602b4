// Package youtube provisions manually created YouTube channels: branding,
// banner and trailer.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pysugar/channel-onboard/internal/logging"
	"github.com/pysugar/channel-onboard/internal/util"
	youtubeapi "google.golang.org/api/youtube/v3"
)

const (
	maxDescriptionLen = 1000
	trailerCategory   = "22" // People & Blogs
	defaultBannerType = "image/png"
)

// Provisioning steps, reported by ProvisioningError.
const (
	StepBranding      = "branding"
	StepBanner        = "banner"
	StepTrailerUpload = "trailer_upload"
	StepTrailerAssign = "trailer_assign"
)

var ErrProvisioning = errors.New("channel setup failed")

// TokenEnsurer makes sure a usable access token exists before remote calls.
type TokenEnsurer interface {
	EnsureValidToken(ctx context.Context) error
}

type SetupRequest struct {
	ChannelID   string
	Title       string
	Description string
	Keywords    []string
	BannerURL   string
	TrailerURL  string
}

// Updates flags which parts of the channel were written.
type Updates struct {
	Description bool `json:"description"`
	Keywords    bool `json:"keywords"`
	Banner      bool `json:"banner"`
	Trailer     bool `json:"trailer"`
}

type ChannelSetupResult struct {
	ChannelID  string  `json:"channelId"`
	ChannelURL string  `json:"channelUrl"`
	Success    bool    `json:"success"`
	Updates    Updates `json:"updates"`
}

// ProvisioningError reports the failing step together with whatever was
// already applied to the channel.
type ProvisioningError struct {
	Step   string
	Result ChannelSetupResult
	Err    error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%v at %s: %v", ErrProvisioning, e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() []error {
	return []error{ErrProvisioning, e.Err}
}

// Provisioner applies branding and assets to an existing channel.
type Provisioner struct {
	tokens TokenEnsurer
	api    ChannelAPI
	assets AssetFetcher
}

func NewProvisioner(tokens TokenEnsurer, api ChannelAPI, assets AssetFetcher) *Provisioner {
	return &Provisioner{tokens: tokens, api: api, assets: assets}
}

// SetupChannel runs the mandatory branding update and the optional banner
// and trailer steps in order. It stops at the first failing step; nothing
// already applied is rolled back.
func (p *Provisioner) SetupChannel(ctx context.Context, req SetupRequest) (ChannelSetupResult, error) {
	if err := p.tokens.EnsureValidToken(ctx); err != nil {
		return ChannelSetupResult{}, err
	}

	result := ChannelSetupResult{
		ChannelID:  req.ChannelID,
		ChannelURL: ChannelURL(req.ChannelID),
	}
	fail := func(step string, err error) (ChannelSetupResult, error) {
		logging.Printf(ctx, "❌ Error setting up channel %s (%s): %v", req.ChannelID, step, err)
		return result, &ProvisioningError{Step: step, Result: result, Err: err}
	}

	branding := Branding{
		Description: util.TruncateRunes(req.Description, maxDescriptionLen),
		Keywords:    joinKeywords(req.Keywords),
	}
	if err := p.api.UpdateBranding(ctx, req.ChannelID, branding); err != nil {
		return fail(StepBranding, err)
	}
	result.Updates.Description = true
	result.Updates.Keywords = true
	logging.Printf(ctx, "✅ Updated channel metadata")

	if req.BannerURL != "" {
		if err := p.uploadBanner(ctx, req.BannerURL); err != nil {
			return fail(StepBanner, err)
		}
		result.Updates.Banner = true
	}

	if req.TrailerURL != "" {
		videoID, err := p.uploadTrailer(ctx, req)
		if err != nil {
			return fail(StepTrailerUpload, err)
		}
		// Re-send the metadata so the update does not blank it.
		branding.UnsubscribedTrailer = videoID
		if err := p.api.UpdateBranding(ctx, req.ChannelID, branding); err != nil {
			return fail(StepTrailerAssign, err)
		}
		result.Updates.Trailer = true
		logging.Printf(ctx, "✅ Set channel trailer %s", videoID)
	}

	result.Success = true
	logging.Printf(ctx, "✅ Channel setup completed: %s", req.ChannelID)
	return result, nil
}

// ChannelInfo returns snippet, branding and statistics of a channel, or nil
// if it does not exist.
func (p *Provisioner) ChannelInfo(ctx context.Context, channelID string) (*youtubeapi.Channel, error) {
	if err := p.tokens.EnsureValidToken(ctx); err != nil {
		return nil, err
	}
	ch, err := p.api.GetChannel(ctx, channelID)
	if err != nil {
		logging.Printf(ctx, "❌ Error getting channel info for %s: %v", channelID, err)
		return nil, err
	}
	return ch, nil
}

func (p *Provisioner) uploadBanner(ctx context.Context, url string) error {
	asset, err := p.assets.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer asset.Body.Close()

	contentType := asset.ContentType
	if contentType == "" {
		contentType = defaultBannerType
	}
	bannerURL, err := p.api.InsertBanner(ctx, asset.Body, contentType)
	if err != nil {
		return err
	}
	logging.Printf(ctx, "✅ Uploaded channel banner %s", bannerURL)
	return nil
}

func (p *Provisioner) uploadTrailer(ctx context.Context, req SetupRequest) (string, error) {
	asset, err := p.assets.Fetch(ctx, req.TrailerURL)
	if err != nil {
		return "", err
	}
	defer asset.Body.Close()

	videoID, err := p.api.InsertVideo(ctx, Video{
		Title:       req.Title + " - Channel Trailer",
		Description: req.Description,
		Tags:        req.Keywords,
		CategoryID:  trailerCategory,
		Privacy:     "public",
	}, asset.Body)
	if err != nil {
		return "", err
	}
	logging.Printf(ctx, "✅ Uploaded trailer video: %s", videoID)
	return videoID, nil
}

// joinKeywords matches the separator used in the client sheet.
func joinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}
