package sheets

import (
	"fmt"
	"strings"
	"time"
)

// Status is the onboarding lifecycle state of a client.
type Status string

const (
	StatusPending    Status = "pending"
	StatusTrial      Status = "trial"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// Rank orders statuses along the lifecycle; unknown values rank -1.
func (s Status) Rank() int {
	switch s {
	case StatusPending, StatusTrial:
		return 0
	case StatusProcessing:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

// CanAdvance reports whether moving from one status to another keeps the
// lifecycle monotonic. Rows with an unknown status may move anywhere.
func CanAdvance(from, to Status) bool {
	if to.Rank() < 0 {
		return false
	}
	return to.Rank() >= from.Rank()
}

// ClientRecord is one onboarding submission plus its provisioning state.
// It is stored as a single spreadsheet row; see columnOrder for the layout.
type ClientRecord struct {
	ID                   string
	CompanyName          string
	Industry             string
	Mission              string
	TargetAudience       string
	PostingFrequency     string
	Email                string
	Phone                string
	ChannelID            string
	ChannelTitle         string
	ChannelURL           string
	GeneratedDescription string
	Keywords             []string
	BannerURL            string
	TrailerURL           string
	Status               Status
	ChannelName          string
	CreatedAt            time.Time
	SetupCompletedAt     time.Time
}

// Field names a column of the client sheet.
type Field string

const (
	FieldID                   Field = "id"
	FieldCompanyName          Field = "company_name"
	FieldIndustry             Field = "industry"
	FieldMission              Field = "mission"
	FieldTargetAudience       Field = "target_audience"
	FieldPostingFrequency     Field = "posting_frequency"
	FieldEmail                Field = "email"
	FieldPhone                Field = "phone"
	FieldChannelID            Field = "channel_id"
	FieldChannelTitle         Field = "channel_title"
	FieldChannelURL           Field = "channel_url"
	FieldGeneratedDescription Field = "generated_description"
	FieldKeywords             Field = "keywords"
	FieldBannerURL            Field = "banner_url"
	FieldTrailerURL           Field = "trailer_url"
	FieldStatus               Field = "status"
	FieldChannelName          Field = "channel_name"
	FieldCreatedAt            Field = "created_at"
	FieldSetupCompletedAt     Field = "setup_completed_at"
)

// columnOrder is the positional layout shared by the writer and the reader.
// Index 0 is column A. Appends write the first appendWidth columns; the
// remaining ones are only ever set through field updates.
var columnOrder = []Field{
	FieldID,
	FieldCompanyName,
	FieldIndustry,
	FieldMission,
	FieldTargetAudience,
	FieldPostingFrequency,
	FieldEmail,
	FieldPhone,
	FieldChannelID,
	FieldChannelTitle,
	FieldChannelURL,
	FieldGeneratedDescription,
	FieldKeywords,
	FieldBannerURL,
	FieldTrailerURL,
	FieldStatus,
	FieldChannelName,
	FieldCreatedAt,
	FieldSetupCompletedAt,
}

const appendWidth = 18

var columnIndex = func() map[Field]int {
	m := make(map[Field]int, len(columnOrder))
	for i, f := range columnOrder {
		m[f] = i
	}
	return m
}()

// ColumnFor returns the column letter of a field.
func ColumnFor(f Field) (string, bool) {
	i, ok := columnIndex[f]
	if !ok {
		return "", false
	}
	return columnLetter(i), true
}

func columnLetter(i int) string {
	letters := ""
	for i >= 0 {
		letters = string(rune('A'+i%26)) + letters
		i = i/26 - 1
	}
	return letters
}

// Fields is a partial update keyed by field name.
type Fields map[Field]string

// JoinKeywords renders keywords the way they are stored in the sheet.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}

// SplitKeywords parses a comma separated keyword cell.
func SplitKeywords(cell string) []string {
	var out []string
	for _, k := range strings.Split(cell, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// FormatTime renders timestamps as stored in the sheet.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(cell string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(cell))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r ClientRecord) values() map[Field]string {
	return map[Field]string{
		FieldID:                   r.ID,
		FieldCompanyName:          r.CompanyName,
		FieldIndustry:             r.Industry,
		FieldMission:              r.Mission,
		FieldTargetAudience:       r.TargetAudience,
		FieldPostingFrequency:     r.PostingFrequency,
		FieldEmail:                r.Email,
		FieldPhone:                r.Phone,
		FieldChannelID:            r.ChannelID,
		FieldChannelTitle:         r.ChannelTitle,
		FieldChannelURL:           r.ChannelURL,
		FieldGeneratedDescription: r.GeneratedDescription,
		FieldKeywords:             JoinKeywords(r.Keywords),
		FieldBannerURL:            r.BannerURL,
		FieldTrailerURL:           r.TrailerURL,
		FieldStatus:               string(r.Status),
		FieldChannelName:          r.ChannelName,
		FieldCreatedAt:            FormatTime(r.CreatedAt),
		FieldSetupCompletedAt:     FormatTime(r.SetupCompletedAt),
	}
}

// row serializes the record into the fixed append layout (columns A:R).
func (r ClientRecord) row() []interface{} {
	vals := r.values()
	row := make([]interface{}, appendWidth)
	for i := 0; i < appendWidth; i++ {
		row[i] = vals[columnOrder[i]]
	}
	return row
}

// recordFromRow deserializes positionally; missing cells read as "".
func recordFromRow(row []interface{}) ClientRecord {
	cell := func(f Field) string {
		i := columnIndex[f]
		if i >= len(row) || row[i] == nil {
			return ""
		}
		if s, ok := row[i].(string); ok {
			return s
		}
		return fmt.Sprint(row[i])
	}

	return ClientRecord{
		ID:                   cell(FieldID),
		CompanyName:          cell(FieldCompanyName),
		Industry:             cell(FieldIndustry),
		Mission:              cell(FieldMission),
		TargetAudience:       cell(FieldTargetAudience),
		PostingFrequency:     cell(FieldPostingFrequency),
		Email:                cell(FieldEmail),
		Phone:                cell(FieldPhone),
		ChannelID:            cell(FieldChannelID),
		ChannelTitle:         cell(FieldChannelTitle),
		ChannelURL:           cell(FieldChannelURL),
		GeneratedDescription: cell(FieldGeneratedDescription),
		Keywords:             SplitKeywords(cell(FieldKeywords)),
		BannerURL:            cell(FieldBannerURL),
		TrailerURL:           cell(FieldTrailerURL),
		Status:               Status(strings.ToLower(strings.TrimSpace(cell(FieldStatus)))),
		ChannelName:          cell(FieldChannelName),
		CreatedAt:            parseTime(cell(FieldCreatedAt)),
		SetupCompletedAt:     parseTime(cell(FieldSetupCompletedAt)),
	}
}
