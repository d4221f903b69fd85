package wizard

import (
	"errors"
	"fmt"

	"github.com/yungbote/facilitator-console/internal/domain"
)

// Curriculum edits never write through an existing slice. Each returns a new
// top-level slice; the edited module (and its videos when touched) are copied,
// every other module is carried over as-is.

var ErrIndexOutOfRange = errors.New("curriculum index out of range")

func checkModule(cur []domain.CourseCurriculum, i int) error {
	if i < 0 || i >= len(cur) {
		return fmt.Errorf("%w: module %d of %d", ErrIndexOutOfRange, i, len(cur))
	}
	return nil
}

func checkVideo(m domain.CourseCurriculum, k int) error {
	if k < 0 || k >= len(m.Videos) {
		return fmt.Errorf("%w: video %d of %d", ErrIndexOutOfRange, k, len(m.Videos))
	}
	return nil
}

func cloneModules(cur []domain.CourseCurriculum) []domain.CourseCurriculum {
	out := make([]domain.CourseCurriculum, len(cur))
	copy(out, cur)
	return out
}

func renumber(cur []domain.CourseCurriculum) []domain.CourseCurriculum {
	for i := range cur {
		cur[i].Order = i + 1
	}
	return cur
}

// AddModule appends a module with the next order index.
func AddModule(cur []domain.CourseCurriculum, title string) []domain.CourseCurriculum {
	out := make([]domain.CourseCurriculum, len(cur), len(cur)+1)
	copy(out, cur)
	return append(out, domain.CourseCurriculum{Title: title, Order: len(cur) + 1, Videos: []domain.CourseVideo{}})
}

func RenameModule(cur []domain.CourseCurriculum, i int, title string) ([]domain.CourseCurriculum, error) {
	if err := checkModule(cur, i); err != nil {
		return cur, err
	}
	out := cloneModules(cur)
	out[i].Title = title
	return out, nil
}

// RemoveModule drops module i and renumbers orders 1..n.
func RemoveModule(cur []domain.CourseCurriculum, i int) ([]domain.CourseCurriculum, error) {
	if err := checkModule(cur, i); err != nil {
		return cur, err
	}
	out := make([]domain.CourseCurriculum, 0, len(cur)-1)
	out = append(out, cur[:i]...)
	out = append(out, cur[i+1:]...)
	return renumber(out), nil
}

// MoveModule moves module from to position to and renumbers orders 1..n.
func MoveModule(cur []domain.CourseCurriculum, from, to int) ([]domain.CourseCurriculum, error) {
	if err := checkModule(cur, from); err != nil {
		return cur, err
	}
	if err := checkModule(cur, to); err != nil {
		return cur, err
	}
	out := make([]domain.CourseCurriculum, 0, len(cur))
	out = append(out, cur[:from]...)
	out = append(out, cur[from+1:]...)
	moved := cur[from]
	out = append(out[:to], append([]domain.CourseCurriculum{moved}, out[to:]...)...)
	return renumber(out), nil
}

// SetModuleNote replaces module i's note; nil removes it.
func SetModuleNote(cur []domain.CourseCurriculum, i int, note *domain.CourseNote) ([]domain.CourseCurriculum, error) {
	if err := checkModule(cur, i); err != nil {
		return cur, err
	}
	out := cloneModules(cur)
	if note != nil {
		n := *note
		note = &n
	}
	out[i].Note = note
	return out, nil
}

func AddVideo(cur []domain.CourseCurriculum, i int, v domain.CourseVideo) ([]domain.CourseCurriculum, error) {
	if err := checkModule(cur, i); err != nil {
		return cur, err
	}
	out := cloneModules(cur)
	videos := make([]domain.CourseVideo, len(cur[i].Videos), len(cur[i].Videos)+1)
	copy(videos, cur[i].Videos)
	out[i].Videos = append(videos, v)
	return out, nil
}

// UpdateVideo replaces video k of module i.
func UpdateVideo(cur []domain.CourseCurriculum, i, k int, v domain.CourseVideo) ([]domain.CourseCurriculum, error) {
	if err := checkModule(cur, i); err != nil {
		return cur, err
	}
	if err := checkVideo(cur[i], k); err != nil {
		return cur, err
	}
	out := cloneModules(cur)
	videos := make([]domain.CourseVideo, len(cur[i].Videos))
	copy(videos, cur[i].Videos)
	videos[k] = v
	out[i].Videos = videos
	return out, nil
}

func RemoveVideo(cur []domain.CourseCurriculum, i, k int) ([]domain.CourseCurriculum, error) {
	if err := checkModule(cur, i); err != nil {
		return cur, err
	}
	if err := checkVideo(cur[i], k); err != nil {
		return cur, err
	}
	out := cloneModules(cur)
	videos := make([]domain.CourseVideo, 0, len(cur[i].Videos)-1)
	videos = append(videos, cur[i].Videos[:k]...)
	out[i].Videos = append(videos, cur[i].Videos[k+1:]...)
	return out, nil
}

// VideoFieldKey is the upload field key of video k in module i.
func VideoFieldKey(i, k int) string {
	return fmt.Sprintf("module-%d-video-%d", i, k)
}

// NoteFieldKey is the upload field key of module i's note.
func NoteFieldKey(i int) string {
	return fmt.Sprintf("module-%d-note", i)
}
