package models

// Activity kinds.
const (
	KindIntake       = "intake"
	KindProvisioning = "provisioning"
	KindWebhook      = "webhook"
)

// Activity is one audited onboarding action. The spreadsheet stays the
// system of record; this table only answers "what happened and when".
type Activity struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Timestamp int64  `gorm:"index" json:"timestamp"` // unix milliseconds
	Kind      string `gorm:"index" json:"kind"`
	ClientID  string `gorm:"index" json:"client_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	Success   bool   `json:"success"`
	Step      string `json:"step,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `gorm:"type:text" json:"details,omitempty"` // JSON
}

// ActivityStats holds aggregated counts over the journal.
type ActivityStats struct {
	Total        int64 `json:"total"`
	SuccessCount int64 `json:"success_count"`
	FailureCount int64 `json:"failure_count"`
}
