package domain

import "time"

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Ref is a server-side reference that reads back either as a bare id or as an
// embedded {id, name} object.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type CourseCategory struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type CourseNote struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

type CourseVideo struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description"`
	File        string `json:"file,omitempty"`
}

type CourseCurriculum struct {
	ID     ID            `json:"id,omitempty"`
	Title  string        `json:"title"`
	Order  int           `json:"order"`
	Videos []CourseVideo `json:"videos"`
	Note   *CourseNote   `json:"note,omitempty"`
}

// IndexedList is the item1..itemN map the API uses for free-form string lists.
type IndexedList map[string]string

type Course struct {
	ID                 ID                 `json:"id,omitempty"`
	Name               string             `json:"name"`
	PreviewDescription string             `json:"preview_description"`
	Description        string             `json:"description"`
	PreviewImage       string             `json:"preview_image,omitempty"`
	PreviewVideo       string             `json:"preview_video,omitempty"`
	Price              string             `json:"price,omitempty"`
	Level              Level              `json:"level,omitempty"`
	EstimatedDuration  string             `json:"estimated_duration,omitempty"`
	Category           *Ref               `json:"category,omitempty"`
	Curriculum         []CourseCurriculum `json:"curriculum"`
	Instructor         *Ref               `json:"instructor,omitempty"`
	TargetAudience     IndexedList        `json:"target_audience,omitempty"`
	LearningOutcomes   IndexedList        `json:"learning_outcomes,omitempty"`
	RequiredMaterials  IndexedList        `json:"required_materials,omitempty"`
	CreatedAt          *time.Time         `json:"created_at,omitempty"`
	UpdatedAt          *time.Time         `json:"updated_at,omitempty"`
}

// CoursePayload is the write shape for create and update.
type CoursePayload struct {
	Name               string             `json:"name"`
	PreviewDescription string             `json:"preview_description"`
	Description        string             `json:"description"`
	PreviewImage       string             `json:"preview_image,omitempty"`
	PreviewVideo       string             `json:"preview_video,omitempty"`
	Price              string             `json:"price,omitempty"`
	Level              Level              `json:"level,omitempty"`
	EstimatedDuration  string             `json:"estimated_duration,omitempty"`
	Category           string             `json:"category,omitempty"`
	Curriculum         []CourseCurriculum `json:"curriculum"`
	TargetAudience     IndexedList        `json:"target_audience"`
	LearningOutcomes   IndexedList        `json:"learning_outcomes"`
	RequiredMaterials  IndexedList        `json:"required_materials"`
}

// CourseSnapshot is the lightweight course embedded in student records.
type CourseSnapshot struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	PreviewImage string `json:"preview_image,omitempty"`
}
