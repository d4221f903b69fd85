package forms

import (
	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/validate"
)

// StudentForm is a partial update; nil fields are left unchanged.
type StudentForm struct {
	FirstName *string `json:"first_name" validate:"omitnil,notblank,max=150"`
	LastName  *string `json:"last_name" validate:"omitnil,notblank,max=150"`
	Phone     *string `json:"phone" validate:"omitnil,max=32"`
}

func (f StudentForm) Validate() error { return validate.Struct(f) }

func (f StudentForm) Patch() domain.StudentPatch {
	return domain.StudentPatch{
		FirstName: trimmed(f.FirstName),
		LastName:  trimmed(f.LastName),
		Phone:     trimmed(f.Phone),
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := trim(*s)
	return &v
}
