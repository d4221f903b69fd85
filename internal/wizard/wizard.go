package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/apierr"
)

type Step int

const (
	StepBasicInfo Step = iota
	StepCurriculum
	StepDetails
	StepReview
)

var stepNames = [...]string{"basic_info", "curriculum", "details", "review"}

func (s Step) String() string {
	if s < StepBasicInfo || s > StepReview {
		return "unknown"
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Step) UnmarshalText(b []byte) error {
	for i, name := range stepNames {
		if name == string(b) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown wizard step %q", b)
}

var (
	ErrStepIncomplete = errors.New("complete the required fields before continuing")
	ErrAtFirstStep    = errors.New("already at the first step")
	ErrAtLastStep     = errors.New("already at the last step")
	ErrNotAtReview    = errors.New("course can only be submitted from the review step")
	ErrSubmitting     = errors.New("submission already in progress")
	ErrSubmitted      = errors.New("course already submitted")
)

const requiredMessage = "this field is required"

type BasicInfo struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	PreviewDescription string       `json:"preview_description"`
	PreviewImage       string       `json:"preview_image"`
	PreviewVideo       string       `json:"preview_video"`
	Price              string       `json:"price"`
	Level              domain.Level `json:"level"`
	EstimatedDuration  string       `json:"estimated_duration"`
	Category           string       `json:"category"`
}

type Details struct {
	TargetAudience    []string `json:"target_audience"`
	LearningOutcomes  []string `json:"learning_outcomes"`
	RequiredMaterials []string `json:"required_materials"`
}

// Draft is everything entered across the four steps.
type Draft struct {
	// CourseID is set when the draft edits an existing course.
	CourseID   string                    `json:"course_id,omitempty"`
	Basic      BasicInfo                 `json:"basic"`
	Curriculum []domain.CourseCurriculum `json:"curriculum"`
	Details    Details                   `json:"details"`
}

// Submitter creates or updates the course. services.CourseService satisfies it.
type Submitter interface {
	Create(ctx context.Context, p domain.CoursePayload) (*domain.Course, error)
	Update(ctx context.Context, id string, p domain.CoursePayload) (*domain.Course, error)
}

// Wizard is the course-authoring state machine. All step state lives on the
// wizard so moving between steps never loses input.
type Wizard struct {
	mu         sync.Mutex
	step       Step
	draft      Draft
	banner     string
	submitting bool
	submitted  *domain.Course
}

func New() *Wizard {
	return &Wizard{draft: Draft{Curriculum: []domain.CourseCurriculum{}}}
}

// FromCourse seeds a draft from an existing course; submitting it updates that course.
func FromCourse(c domain.Course) *Wizard {
	w := New()
	w.draft.CourseID = c.ID.String()
	w.draft.Basic = BasicInfo{
		Name:               c.Name,
		Description:        c.Description,
		PreviewDescription: c.PreviewDescription,
		PreviewImage:       c.PreviewImage,
		PreviewVideo:       c.PreviewVideo,
		Price:              c.Price,
		Level:              c.Level,
		EstimatedDuration:  c.EstimatedDuration,
	}
	if c.Category != nil {
		w.draft.Basic.Category = c.Category.ID
	}
	if len(c.Curriculum) > 0 {
		w.draft.Curriculum = renumber(cloneModules(c.Curriculum))
	}
	w.draft.Details = Details{
		TargetAudience:    FromIndexedMap(c.TargetAudience),
		LearningOutcomes:  FromIndexedMap(c.LearningOutcomes),
		RequiredMaterials: FromIndexedMap(c.RequiredMaterials),
	}
	return w
}

func (w *Wizard) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

func (w *Wizard) SetBasicInfo(b BasicInfo) {
	w.mu.Lock()
	w.draft.Basic = b
	w.mu.Unlock()
}

func (w *Wizard) SetDetails(d Details) {
	w.mu.Lock()
	w.draft.Details = Details{
		TargetAudience:    append([]string(nil), d.TargetAudience...),
		LearningOutcomes:  append([]string(nil), d.LearningOutcomes...),
		RequiredMaterials: append([]string(nil), d.RequiredMaterials...),
	}
	w.mu.Unlock()
}

// EditCurriculum applies one of the curriculum edits to the draft.
func (w *Wizard) EditCurriculum(edit func([]domain.CourseCurriculum) ([]domain.CourseCurriculum, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := edit(w.draft.Curriculum)
	if err != nil {
		return err
	}
	w.draft.Curriculum = next
	return nil
}

// Next advances when the current step's required fields are filled. On failure
// the step is unchanged and the error lists the missing fields.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step >= StepReview {
		return ErrAtLastStep
	}
	if missing := stepGaps(w.step, w.draft); len(missing) > 0 {
		return apierr.NewValidationError(ErrStepIncomplete, missing...)
	}
	w.step++
	return nil
}

// Back returns to the previous step without validating anything.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step <= StepBasicInfo {
		return ErrAtFirstStep
	}
	w.step--
	return nil
}

func stepGaps(step Step, d Draft) []apierr.FieldError {
	var missing []apierr.FieldError
	switch step {
	case StepBasicInfo:
		for _, f := range []struct{ name, val string }{
			{"name", d.Basic.Name},
			{"description", d.Basic.Description},
			{"preview_description", d.Basic.PreviewDescription},
		} {
			if strings.TrimSpace(f.val) == "" {
				missing = append(missing, apierr.FieldError{Field: f.name, Error: requiredMessage})
			}
		}
	case StepCurriculum:
		if len(d.Curriculum) == 0 {
			missing = append(missing, apierr.FieldError{Field: "curriculum", Error: "add at least one module"})
		}
	}
	return missing
}

// Payload assembles the course write from the draft.
func (d Draft) Payload() domain.CoursePayload {
	return domain.CoursePayload{
		Name:               strings.TrimSpace(d.Basic.Name),
		PreviewDescription: strings.TrimSpace(d.Basic.PreviewDescription),
		Description:        strings.TrimSpace(d.Basic.Description),
		PreviewImage:       d.Basic.PreviewImage,
		PreviewVideo:       d.Basic.PreviewVideo,
		Price:              strings.TrimSpace(d.Basic.Price),
		Level:              d.Basic.Level,
		EstimatedDuration:  strings.TrimSpace(d.Basic.EstimatedDuration),
		Category:           d.Basic.Category,
		Curriculum:         renumber(cloneModules(d.Curriculum)),
		TargetAudience:     ToIndexedMap(d.Details.TargetAudience),
		LearningOutcomes:   ToIndexedMap(d.Details.LearningOutcomes),
		RequiredMaterials:  ToIndexedMap(d.Details.RequiredMaterials),
	}
}

// Submit sends the draft from the review step. A rejection is shown in the
// banner and leaves step and draft untouched for resubmission.
func (w *Wizard) Submit(ctx context.Context, s Submitter) (*domain.Course, error) {
	w.mu.Lock()
	switch {
	case w.submitted != nil:
		w.mu.Unlock()
		return nil, ErrSubmitted
	case w.step != StepReview:
		w.mu.Unlock()
		return nil, ErrNotAtReview
	case w.submitting:
		w.mu.Unlock()
		return nil, ErrSubmitting
	}
	draft := w.draft
	w.submitting = true
	w.banner = ""
	w.mu.Unlock()

	course, err := submit(ctx, s, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.banner = err.Error()
		return nil, err
	}
	w.submitted = course
	return course, nil
}

func submit(ctx context.Context, s Submitter, d Draft) (*domain.Course, error) {
	if d.Basic.Level != "" && !d.Basic.Level.Valid() {
		return nil, apierr.NewValidationError(ErrStepIncomplete,
			apierr.FieldError{Field: "level", Error: "must be one of beginner, intermediate, advanced"})
	}
	for _, step := range []Step{StepBasicInfo, StepCurriculum} {
		if missing := stepGaps(step, d); len(missing) > 0 {
			return nil, apierr.NewValidationError(ErrStepIncomplete, missing...)
		}
	}
	if d.CourseID != "" {
		return s.Update(ctx, d.CourseID, d.Payload())
	}
	return s.Create(ctx, d.Payload())
}

func (w *Wizard) Banner() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.banner
}

func (w *Wizard) DismissBanner() {
	w.mu.Lock()
	w.banner = ""
	w.mu.Unlock()
}

// Submitted returns the course created or updated by a successful Submit.
func (w *Wizard) Submitted() *domain.Course {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

// ModuleFields names the upload fields of one curriculum module.
type ModuleFields struct {
	Note   string   `json:"note"`
	Videos []string `json:"videos"`
}

// View is the JSON snapshot the shell renders.
type View struct {
	Step         Step           `json:"step"`
	StepIndex    int            `json:"step_index"`
	Draft        Draft          `json:"draft"`
	UploadFields []ModuleFields `json:"upload_fields"`
	Banner       string         `json:"banner,omitempty"`
	Submitted    *domain.Course `json:"submitted,omitempty"`
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		Step:         w.step,
		StepIndex:    int(w.step),
		Draft:        w.draft,
		UploadFields: uploadFields(w.draft.Curriculum),
		Banner:       w.banner,
		Submitted:    w.submitted,
	}
}

func uploadFields(cur []domain.CourseCurriculum) []ModuleFields {
	out := make([]ModuleFields, len(cur))
	for i, m := range cur {
		out[i] = ModuleFields{Note: NoteFieldKey(i), Videos: make([]string, len(m.Videos))}
		for k := range m.Videos {
			out[i].Videos[k] = VideoFieldKey(i, k)
		}
	}
	return out
}
