package domain

import "time"

// CourseLibraryItem reads back with a file, an external url, either, or neither.
type CourseLibraryItem struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Course    *Ref      `json:"course,omitempty"`
	File      string    `json:"file,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Link returns the stored file when present, else the external url.
func (it CourseLibraryItem) Link() string {
	if it.File != "" {
		return it.File
	}
	return it.URL
}
