package domain

import (
	"io"
	"time"
)

// Attachment is a binary part sent with a multipart write.
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type LiveClassInput struct {
	Title       string
	Course      string
	StartTime   time.Time
	EndTime     time.Time
	MeetingLink string
	Provider    Provider
	Material    *Attachment
}

// LibraryItemInput carries exactly one of File or URL once validated.
type LibraryItemInput struct {
	Title  string
	Course string
	URL    string
	File   *Attachment
}
