package forms

import (
	"strings"

	"github.com/yungbote/facilitator-console/internal/platform/validate"
)

type LoginForm struct {
	Username string `json:"username" form:"username" validate:"notblank"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (f LoginForm) Validate() error { return validate.Struct(f) }

// OTPForm rejects incomplete codes before the API sees them.
type OTPForm struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"otp"`
}

func (f OTPForm) Validate() error {
	f.Email = trim(f.Email)
	f.Code = strings.ReplaceAll(trim(f.Code), " ", "")
	return validate.Struct(f)
}

// Normalized strips the spaces people type between code digits.
func (f OTPForm) Normalized() OTPForm {
	return OTPForm{Email: trim(f.Email), Code: strings.ReplaceAll(trim(f.Code), " ", "")}
}

type ResendOTPForm struct {
	Email string `json:"email" validate:"required,email"`
}

func (f ResendOTPForm) Validate() error {
	f.Email = trim(f.Email)
	return validate.Struct(f)
}
