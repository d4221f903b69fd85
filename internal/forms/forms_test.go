package forms

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/apierr"
)

func fieldMessage(t *testing.T, err error, field string) string {
	t.Helper()
	var ve *apierr.ValidationError
	require.True(t, errors.As(err, &ve), "want *apierr.ValidationError, got %v", err)
	msg, ok := ve.Field(field)
	require.True(t, ok, "no error for %q in %+v", field, ve.Fields)
	return msg
}

func validLiveClass() LiveClassForm {
	start := time.Date(2026, 11, 3, 15, 0, 0, 0, time.UTC)
	return LiveClassForm{
		Course:      "12",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		MeetingLink: "https://zoom.us/j/123",
		Provider:    domain.ProviderZoom,
	}
}

func TestLiveClassFormRejectsEndNotAfterStart(t *testing.T) {
	f := validLiveClass()
	require.NoError(t, f.Validate())

	f.EndTime = f.StartTime
	assert.Equal(t, "must be after the start time", fieldMessage(t, f.Validate(), "end_time"))

	f.EndTime = f.StartTime.Add(-time.Minute)
	assert.Equal(t, "must be after the start time", fieldMessage(t, f.Validate(), "end_time"))
}

func TestLiveClassFormRejectsBadLinks(t *testing.T) {
	for _, link := range []string{"", "zoom.us/j/1", "not a url", "ftp://host/x", "https://"} {
		f := validLiveClass()
		f.MeetingLink = link
		err := f.Validate()
		assert.Error(t, err, "link %q", link)
		fieldMessage(t, err, "meeting_link")
	}
}

func TestLiveClassFormProvider(t *testing.T) {
	f := validLiveClass()
	f.Provider = ""
	assert.NoError(t, f.Validate())
	f.Provider = "teams"
	fieldMessage(t, f.Validate(), "provider")
}

func TestGenerateMeetingLink(t *testing.T) {
	link, err := GenerateMeetingLink(domain.ProviderJitsi, "Week 3: Fractions & Decimals!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://meet.jit.si/week-3-fractions-decimals-"), link)

	_, err = GenerateMeetingLink(domain.ProviderZoom, "x")
	assert.ErrorIs(t, err, ErrManualLink)
	_, err = GenerateMeetingLink("teams", "x")
	assert.Error(t, err)
}

func TestLibraryItemFormNeedsExactlyOneSource(t *testing.T) {
	base := LibraryItemForm{Title: "Reading list", Course: "4"}

	neither := base
	assert.Equal(t, "provide either a file or a link, not both", fieldMessage(t, neither.Validate(), "file"))

	both := base
	both.URL = "https://example.com/list"
	both.HasFile = true
	fieldMessage(t, both.Validate(), "file")

	link := base
	link.URL = "https://example.com/list"
	assert.NoError(t, link.Validate())
	assert.Equal(t, "https://example.com/list", link.Input(nil).URL)

	file := base
	file.HasFile = true
	assert.NoError(t, file.Validate())
	in := file.Input(&domain.Attachment{Filename: "a.pdf"})
	assert.Empty(t, in.URL)
	assert.NotNil(t, in.File)
}

func TestAssignmentForm(t *testing.T) {
	f := AssignmentForm{Title: "Lab 1", Course: "2", TotalMarks: 0}
	err := f.Validate()
	fieldMessage(t, err, "due_date")
	fieldMessage(t, err, "total_marks")

	f.DueDate = time.Now().Add(24 * time.Hour)
	f.TotalMarks = 20
	f.File = "notes.pdf"
	fieldMessage(t, f.Validate(), "file")

	f.File = "https://bucket.s3.us-east-1.amazonaws.com/assignments/1-lab.pdf"
	require.NoError(t, f.Validate())
	assert.Equal(t, "2", f.Payload().Course)
}

func TestGradeFormBounds(t *testing.T) {
	assert.NoError(t, GradeForm{MarksObtained: 20, TotalMarks: 20}.Validate())
	assert.Equal(t, "cannot exceed the assignment's total marks", fieldMessage(t, GradeForm{MarksObtained: 21, TotalMarks: 20}.Validate(), "marks_obtained"))
	fieldMessage(t, GradeForm{MarksObtained: -1, TotalMarks: 20}.Validate(), "marks_obtained")
}

func TestOTPFormRejectsIncompleteCode(t *testing.T) {
	for _, code := range []string{"", "123", "12345a", "1234567"} {
		err := OTPForm{Email: "ada@example.com", Code: code}.Validate()
		assert.Equal(t, "enter the 6-digit code", fieldMessage(t, err, "code"), "code %q", code)
	}
	assert.NoError(t, OTPForm{Email: "ada@example.com", Code: " 123 456 "}.Validate())
	assert.Equal(t, "123456", OTPForm{Code: "123 456"}.Normalized().Code)
	fieldMessage(t, OTPForm{Email: "nope", Code: "123456"}.Validate(), "email")
}

func TestLoginForm(t *testing.T) {
	err := LoginForm{Username: "  "}.Validate()
	fieldMessage(t, err, "username")
	assert.Equal(t, "this field is required", fieldMessage(t, err, "password"))
}

func TestStudentFormPartial(t *testing.T) {
	assert.NoError(t, StudentForm{}.Validate())
	blank := ""
	fieldMessage(t, StudentForm{FirstName: &blank}.Validate(), "first_name")

	name := " Grace "
	p := StudentForm{FirstName: &name}.Patch()
	require.NotNil(t, p.FirstName)
	assert.Equal(t, "Grace", *p.FirstName)
	assert.Nil(t, p.LastName)
}
