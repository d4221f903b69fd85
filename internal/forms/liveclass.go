package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/validate"
)

const jitsiBaseURL = "https://meet.jit.si/"

// ErrManualLink is returned for providers whose rooms must be created outside the console.
var ErrManualLink = errors.New("paste the meeting link from your provider")

type LiveClassForm struct {
	Title       string          `json:"title" form:"title"`
	Course      string          `json:"course" form:"course" validate:"notblank"`
	StartTime   time.Time       `json:"start_time" form:"start_time" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
	EndTime     time.Time       `json:"end_time" form:"end_time" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
	MeetingLink string          `json:"meeting_link" form:"meeting_link" validate:"required,http_url"`
	Provider    domain.Provider `json:"provider" form:"provider" validate:"omitempty,oneof=google zoom jitsi aws stream"`
}

func liveClassRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(LiveClassForm)
	if f.StartTime.IsZero() || f.EndTime.IsZero() {
		return
	}
	if !f.EndTime.After(f.StartTime) {
		sl.ReportError(f.EndTime, "end_time", "EndTime", afterStartTag, "")
	}
}

func (f LiveClassForm) Validate() error {
	f.MeetingLink = trim(f.MeetingLink)
	return validate.Struct(f)
}

// Input converts a validated form. material may be nil.
func (f LiveClassForm) Input(material *domain.Attachment) domain.LiveClassInput {
	return domain.LiveClassInput{
		Title:       trim(f.Title),
		Course:      trim(f.Course),
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		MeetingLink: trim(f.MeetingLink),
		Provider:    f.Provider,
		Material:    material,
	}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateMeetingLink creates a room link for providers that need no account.
// Only jitsi rooms can be generated; other providers return ErrManualLink.
func GenerateMeetingLink(p domain.Provider, title string) (string, error) {
	if p != domain.ProviderJitsi {
		if !p.Valid() {
			return "", fmt.Errorf("unknown provider %q", p)
		}
		return "", ErrManualLink
	}
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 40 {
		slug = strings.Trim(slug[:40], "-")
	}
	room := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if slug != "" {
		room = slug + "-" + room
	}
	return jitsiBaseURL + room, nil
}
