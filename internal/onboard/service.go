// Package onboard ties client intake, the record store and channel
// provisioning together.
package onboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/channel-onboard/internal/db/models"
	"github.com/pysugar/channel-onboard/internal/journal"
	"github.com/pysugar/channel-onboard/internal/logging"
	"github.com/pysugar/channel-onboard/internal/sheets"
	"github.com/pysugar/channel-onboard/internal/webhook"
	"github.com/pysugar/channel-onboard/internal/youtube"
	youtubeapi "google.golang.org/api/youtube/v3"
)

var (
	ErrValidation = errors.New("invalid request")
	ErrNotFound   = errors.New("not found")
)

// requestError carries a user-facing message and matches its kind with
// errors.Is.
type requestError struct {
	kind error
	msg  string
}

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return e.kind }

func invalid(msg string) error  { return &requestError{kind: ErrValidation, msg: msg} }
func notFound(msg string) error { return &requestError{kind: ErrNotFound, msg: msg} }

const intakeMessage = "Channel created successfully. Check your email for next steps!"

// Provisioner applies branding and assets to a channel.
type Provisioner interface {
	SetupChannel(ctx context.Context, req youtube.SetupRequest) (youtube.ChannelSetupResult, error)
	ChannelInfo(ctx context.Context, channelID string) (*youtubeapi.Channel, error)
}

// Authorizer is the admin side of the OAuth2 credential.
type Authorizer interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) error
	IsAuthorized() bool
	EnsureValidToken(ctx context.Context) error
}

// StateIssuer mints and checks the CSRF state of the consent redirect.
type StateIssuer interface {
	Mint() (string, error)
	Valid(state string) bool
}

// Notifier announces new clients to an external workflow.
type Notifier interface {
	Enabled() bool
	Notify(ctx context.Context, ev webhook.Event) error
}

// Journal records audited activity.
type Journal interface {
	Record(entry models.Activity)
}

// Deps are the collaborators of a Service. Notifier and Journal are
// optional.
type Deps struct {
	Store        sheets.RecordStore
	Provisioner  Provisioner
	Auth         Authorizer
	States       StateIssuer
	Placeholders youtube.Placeholders
	Notifier     Notifier
	Journal      Journal
}

// Service implements the onboarding operations exposed over HTTP and CLI.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	deps  Deps
	now   func() time.Time
	newID func() string
}

func NewService(deps Deps) *Service {
	return &Service{
		deps:  deps,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

type Submission struct {
	CompanyName      string `json:"companyName"`
	Industry         string `json:"industry"`
	Mission          string `json:"mission"`
	TargetAudience   string `json:"targetAudience"`
	PostingFrequency string `json:"postingFrequency"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
}

type IntakeResult struct {
	Success    bool   `json:"success"`
	ClientID   string `json:"clientId"`
	ChannelURL string `json:"channelUrl"`
	ChannelID  string `json:"channelId"`
	Message    string `json:"message"`
}

// Submit registers a new client in trial status with a placeholder channel.
func (s *Service) Submit(ctx context.Context, sub Submission) (IntakeResult, error) {
	if strings.TrimSpace(sub.CompanyName) == "" || strings.TrimSpace(sub.Industry) == "" || strings.TrimSpace(sub.Email) == "" {
		return IntakeResult{}, invalid("Missing required fields")
	}
	logging.Printf(ctx, "📝 New onboarding request: %s", sub.CompanyName)

	channel := s.deps.Placeholders.Create(sub.CompanyName)
	clientID := s.newID()

	rec := sheets.ClientRecord{
		ID:               clientID,
		CompanyName:      sub.CompanyName,
		Industry:         sub.Industry,
		Mission:          sub.Mission,
		TargetAudience:   sub.TargetAudience,
		PostingFrequency: sub.PostingFrequency,
		Email:            sub.Email,
		Phone:            sub.Phone,
		ChannelTitle:     channel.Title,
		ChannelURL:       channel.URL,
		Status:           sheets.StatusTrial,
		CreatedAt:        s.now(),
	}
	if err := s.deps.Store.AppendRecord(ctx, rec); err != nil {
		s.record(models.Activity{
			Kind:     models.KindIntake,
			ClientID: clientID,
			Error:    err.Error(),
			Details:  journal.Details(map[string]string{"companyName": sub.CompanyName}),
		})
		return IntakeResult{}, err
	}
	s.record(models.Activity{
		Kind:      models.KindIntake,
		ClientID:  clientID,
		ChannelID: channel.ChannelID,
		Success:   true,
		Details:   journal.Details(map[string]string{"companyName": sub.CompanyName, "industry": sub.Industry}),
	})

	s.notify(ctx, webhook.Event{
		ClientID:    clientID,
		ChannelID:   channel.ChannelID,
		CompanyName: sub.CompanyName,
		Industry:    sub.Industry,
	})

	return IntakeResult{
		Success:    true,
		ClientID:   clientID,
		ChannelURL: channel.URL,
		ChannelID:  channel.ChannelID,
		Message:    intakeMessage,
	}, nil
}

// notify never fails the intake; the outcome is logged and journaled.
func (s *Service) notify(ctx context.Context, ev webhook.Event) {
	if s.deps.Notifier == nil || !s.deps.Notifier.Enabled() {
		return
	}
	entry := models.Activity{Kind: models.KindWebhook, ClientID: ev.ClientID, ChannelID: ev.ChannelID, Success: true}
	if err := s.deps.Notifier.Notify(ctx, ev); err != nil {
		logging.Printf(ctx, "⚠️ Failed to trigger n8n workflow: %v", err)
		entry.Success = false
		entry.Error = err.Error()
	}
	s.record(entry)
}

type PendingChannel struct {
	ID               string   `json:"id"`
	CompanyName      string   `json:"companyName"`
	Industry         string   `json:"industry"`
	ChannelName      string   `json:"channelName"`
	Description      string   `json:"description"`
	Keywords         []string `json:"keywords"`
	BannerURL        string   `json:"bannerUrl"`
	TrailerURL       string   `json:"trailerUrl"`
	Status           string   `json:"status"`
	CreatedAt        string   `json:"createdAt"`
	YouTubeChannelID string   `json:"youtubeChannelId,omitempty"`
}

// PendingChannels lists every client in the dashboard shape.
func (s *Service) PendingChannels(ctx context.Context) ([]PendingChannel, error) {
	records, err := s.deps.Store.FetchAllRecords(ctx)
	if err != nil {
		return nil, err
	}

	channels := make([]PendingChannel, 0, len(records))
	for _, rec := range records {
		channels = append(channels, s.pendingChannel(rec))
	}
	return channels, nil
}

func (s *Service) pendingChannel(rec sheets.ClientRecord) PendingChannel {
	status := string(rec.Status)
	switch {
	case rec.ChannelID != "":
		status = string(sheets.StatusCompleted)
	case status == "":
		status = string(sheets.StatusPending)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	keywords := rec.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return PendingChannel{
		ID:               rec.ID,
		CompanyName:      rec.CompanyName,
		Industry:         rec.Industry,
		ChannelName:      channelName(rec),
		Description:      description(rec),
		Keywords:         keywords,
		BannerURL:        rec.BannerURL,
		TrailerURL:       rec.TrailerURL,
		Status:           status,
		CreatedAt:        sheets.FormatTime(createdAt),
		YouTubeChannelID: rec.ChannelID,
	}
}

func channelName(rec sheets.ClientRecord) string {
	if rec.ChannelName != "" {
		return rec.ChannelName
	}
	return rec.CompanyName + " Marketing"
}

func description(rec sheets.ClientRecord) string {
	if rec.GeneratedDescription != "" {
		return rec.GeneratedDescription
	}
	return rec.Mission
}

// SetupOutcome is the result of an admin channel setup. On provisioning
// failure Updates still shows what was applied.
type SetupOutcome struct {
	Success    bool            `json:"success"`
	ChannelID  string          `json:"channelId"`
	ChannelURL string          `json:"channelUrl"`
	Updates    youtube.Updates `json:"updates"`
}

// SetupChannel attaches a manually created channel to a client and
// provisions it. Input is validated before any remote call.
func (s *Service) SetupChannel(ctx context.Context, clientID, channelID string) (SetupOutcome, error) {
	if clientID == "" || channelID == "" {
		return SetupOutcome{}, invalid("Missing required fields")
	}
	if !youtube.ValidChannelID(channelID) {
		return SetupOutcome{}, invalid("Invalid YouTube channel ID format")
	}

	rec, ok, err := s.deps.Store.FetchRecordByID(ctx, clientID)
	if err != nil {
		return SetupOutcome{}, err
	}
	if !ok {
		return SetupOutcome{}, notFound("Client not found")
	}

	// without a usable credential nothing can be applied, so the record
	// keeps its status
	if err := s.deps.Auth.EnsureValidToken(ctx); err != nil {
		s.record(models.Activity{
			Kind:      models.KindProvisioning,
			ClientID:  clientID,
			ChannelID: channelID,
			Step:      "credential",
			Error:     err.Error(),
		})
		return SetupOutcome{ChannelID: channelID, ChannelURL: youtube.ChannelURL(channelID)}, err
	}

	if rec.Status != sheets.StatusCompleted && sheets.CanAdvance(rec.Status, sheets.StatusProcessing) {
		if err := s.deps.Store.UpdateRecordFields(ctx, clientID, sheets.Fields{
			sheets.FieldStatus: string(sheets.StatusProcessing),
		}); err != nil {
			return SetupOutcome{}, err
		}
	}

	result, err := s.deps.Provisioner.SetupChannel(ctx, youtube.SetupRequest{
		ChannelID:   channelID,
		Title:       titleOf(rec),
		Description: description(rec),
		Keywords:    rec.Keywords,
		BannerURL:   rec.BannerURL,
		TrailerURL:  rec.TrailerURL,
	})
	outcome := SetupOutcome{
		Success:    result.Success,
		ChannelID:  channelID,
		ChannelURL: youtube.ChannelURL(channelID),
		Updates:    result.Updates,
	}
	if err != nil {
		entry := models.Activity{
			Kind:      models.KindProvisioning,
			ClientID:  clientID,
			ChannelID: channelID,
			Error:     err.Error(),
			Details:   journal.Details(result.Updates),
		}
		var perr *youtube.ProvisioningError
		if errors.As(err, &perr) {
			entry.Step = perr.Step
		}
		s.record(entry)
		return outcome, err
	}

	if err := s.deps.Store.UpdateRecordFields(ctx, clientID, sheets.Fields{
		sheets.FieldChannelID:        channelID,
		sheets.FieldChannelURL:       result.ChannelURL,
		sheets.FieldStatus:           string(sheets.StatusCompleted),
		sheets.FieldSetupCompletedAt: sheets.FormatTime(s.now()),
	}); err != nil {
		s.record(models.Activity{
			Kind:      models.KindProvisioning,
			ClientID:  clientID,
			ChannelID: channelID,
			Step:      "record_update",
			Error:     err.Error(),
			Details:   journal.Details(result.Updates),
		})
		return outcome, err
	}

	s.record(models.Activity{
		Kind:      models.KindProvisioning,
		ClientID:  clientID,
		ChannelID: channelID,
		Success:   true,
		Details:   journal.Details(result.Updates),
	})
	logging.Printf(ctx, "✅ Client %s attached to channel %s", clientID, channelID)
	return outcome, nil
}

func titleOf(rec sheets.ClientRecord) string {
	if rec.ChannelName != "" {
		return rec.ChannelName
	}
	return rec.CompanyName
}

// ChannelInfo fetches live channel details.
func (s *Service) ChannelInfo(ctx context.Context, channelID string) (*youtubeapi.Channel, error) {
	return s.deps.Provisioner.ChannelInfo(ctx, channelID)
}

// AuthURL returns the consent URL an operator opens once.
func (s *Service) AuthURL() (string, error) {
	state, err := s.deps.States.Mint()
	if err != nil {
		return "", err
	}
	return s.deps.Auth.AuthCodeURL(state), nil
}

// ValidState reports whether a consent redirect carried a state minted by
// AuthURL or the oauth CLI.
func (s *Service) ValidState(state string) bool {
	return s.deps.States.Valid(state)
}

// Authorize exchanges an authorization code for a stored credential.
func (s *Service) Authorize(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return invalid("Authorization code is required")
	}
	return s.deps.Auth.Exchange(ctx, code)
}

func (s *Service) AuthStatus() bool {
	return s.deps.Auth.IsAuthorized()
}

func (s *Service) record(entry models.Activity) {
	if s.deps.Journal != nil {
		s.deps.Journal.Record(entry)
	}
}
