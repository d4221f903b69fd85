package forms

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/validate"
)

type AssignmentForm struct {
	Title       string    `json:"title" validate:"notblank"`
	Description string    `json:"description"`
	Course      string    `json:"course" validate:"notblank"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	TotalMarks  int       `json:"total_marks" validate:"gt=0"`
	File        string    `json:"file" validate:"omitempty,http_url"`
}

func (f AssignmentForm) Validate() error { return validate.Struct(f) }

func (f AssignmentForm) Payload() domain.AssignmentPayload {
	return domain.AssignmentPayload{
		Title:       trim(f.Title),
		Description: trim(f.Description),
		DueDate:     f.DueDate,
		TotalMarks:  f.TotalMarks,
		File:        trim(f.File),
		Course:      trim(f.Course),
	}
}

// GradeForm is checked against the assignment's total marks.
type GradeForm struct {
	MarksObtained int    `json:"marks_obtained" validate:"gte=0"`
	Feedback      string `json:"feedback"`
	TotalMarks    int    `json:"-"`
}

func gradeRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(GradeForm)
	if f.TotalMarks > 0 && f.MarksObtained > f.TotalMarks {
		sl.ReportError(f.MarksObtained, "marks_obtained", "MarksObtained", maxMarksTag, "")
	}
}

func (f GradeForm) Validate() error { return validate.Struct(f) }

func (f GradeForm) Payload() domain.GradePayload {
	return domain.GradePayload{MarksObtained: f.MarksObtained, Feedback: trim(f.Feedback)}
}
