package domain

import "time"

type Assignment struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	TotalMarks  int       `json:"total_marks"`
	File        string    `json:"file,omitempty"`
	Teacher     *Ref      `json:"teacher,omitempty"`
	Course      *Ref      `json:"course,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

type AssignmentPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	TotalMarks  int       `json:"total_marks"`
	File        string    `json:"file,omitempty"`
	Course      string    `json:"course"`
}

type AssignmentSubmission struct {
	ID            ID               `json:"id"`
	Assignment    *Ref             `json:"assignment,omitempty"`
	Student       *StudentSnapshot `json:"student,omitempty"`
	File          string           `json:"file,omitempty"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	MarksObtained *int             `json:"marks_obtained"`
	Feedback      string           `json:"feedback,omitempty"`
}

// Graded reports whether marks have been recorded.
func (s AssignmentSubmission) Graded() bool { return s.MarksObtained != nil }

type GradePayload struct {
	MarksObtained int    `json:"marks_obtained"`
	Feedback      string `json:"feedback,omitempty"`
}
