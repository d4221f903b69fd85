package forms

import (
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/validate"
)

// LibraryItemForm needs exactly one of an attached file or an external link.
type LibraryItemForm struct {
	Title   string `json:"title" form:"title" validate:"notblank"`
	Course  string `json:"course" form:"course" validate:"notblank"`
	URL     string `json:"url" form:"url" validate:"omitempty,http_url"`
	HasFile bool   `json:"-" form:"-"`
}

func libraryItemRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(LibraryItemForm)
	hasURL := trim(f.URL) != ""
	if hasURL == f.HasFile {
		sl.ReportError(f.URL, "file", "HasFile", fileOrURLTag, "")
	}
}

func (f LibraryItemForm) Validate() error { return validate.Struct(f) }

func (f LibraryItemForm) Input(file *domain.Attachment) domain.LibraryItemInput {
	in := domain.LibraryItemInput{Title: trim(f.Title), Course: trim(f.Course)}
	if file != nil {
		in.File = file
	} else {
		in.URL = trim(f.URL)
	}
	return in
}
