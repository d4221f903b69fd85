package wizard

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/apierr"
)

type fakeSubmitter struct {
	err     error
	created []domain.CoursePayload
	updated map[string]domain.CoursePayload
}

func (f *fakeSubmitter) Create(_ context.Context, p domain.CoursePayload) (*domain.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	return &domain.Course{ID: "c1", Name: p.Name}, nil
}

func (f *fakeSubmitter) Update(_ context.Context, id string, p domain.CoursePayload) (*domain.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = map[string]domain.CoursePayload{}
	}
	f.updated[id] = p
	return &domain.Course{ID: domain.ID(id), Name: p.Name}, nil
}

func filledBasic() BasicInfo {
	return BasicInfo{Name: "Algebra I", Description: "Linear equations", PreviewDescription: "Start here", Level: domain.LevelBeginner}
}

func toReview(t *testing.T, w *Wizard) {
	t.Helper()
	w.SetBasicInfo(filledBasic())
	if err := w.EditCurriculum(func(c []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		return AddModule(c, "Week 1"), nil
	}); err != nil {
		t.Fatalf("EditCurriculum: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := w.Next(); err != nil {
			t.Fatalf("Next from %s: %v", w.Current(), err)
		}
	}
}

func TestNextDoesNotAdvanceWithEmptyRequiredFields(t *testing.T) {
	w := New()
	for _, basic := range []BasicInfo{
		{},
		{Name: "x", Description: "y"},
		{Name: "  ", Description: "y", PreviewDescription: "z"},
	} {
		w.SetBasicInfo(basic)
		err := w.Next()
		var ve *apierr.ValidationError
		if !errors.As(err, &ve) || !errors.Is(err, ErrStepIncomplete) {
			t.Fatalf("Next(%+v): want validation error got=%v", basic, err)
		}
		if w.Current() != StepBasicInfo {
			t.Fatalf("step moved: want=%s got=%s", StepBasicInfo, w.Current())
		}
	}

	w.SetBasicInfo(filledBasic())
	if err := w.Next(); err != nil {
		t.Fatalf("Next(basic filled): %v", err)
	}
	err := w.Next()
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Next(no modules): want validation error got=%v", err)
	}
	if _, ok := ve.Field("curriculum"); !ok || w.Current() != StepCurriculum {
		t.Fatalf("curriculum gate: fields=%v step=%s", ve.Fields, w.Current())
	}
}

func TestBackPreservesStateWithoutValidation(t *testing.T) {
	w := New()
	toReview(t, w)
	w.SetBasicInfo(BasicInfo{})
	for w.Current() > StepBasicInfo {
		if err := w.Back(); err != nil {
			t.Fatalf("Back: %v", err)
		}
	}
	if err := w.Back(); !errors.Is(err, ErrAtFirstStep) {
		t.Fatalf("Back at first step: got=%v", err)
	}
	if len(w.Draft().Curriculum) != 1 {
		t.Fatalf("curriculum lost on navigation: %+v", w.Draft().Curriculum)
	}
}

func TestUpdateVideoSharesUntouchedStructure(t *testing.T) {
	cur := AddModule(nil, "A")
	cur = AddModule(cur, "B")
	var err error
	for _, title := range []string{"a1", "a2"} {
		if cur, err = AddVideo(cur, 0, domain.CourseVideo{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	for _, title := range []string{"b1", "b2"} {
		if cur, err = AddVideo(cur, 1, domain.CourseVideo{Title: title}); err != nil {
			t.Fatal(err)
		}
	}

	next, err := UpdateVideo(cur, 1, 0, domain.CourseVideo{Title: "b1 edited", Duration: "10:00"})
	if err != nil {
		t.Fatalf("UpdateVideo: %v", err)
	}
	if &next[0] == &cur[0] {
		t.Fatalf("top-level slice must be fresh")
	}
	if &next[0].Videos[0] != &cur[0].Videos[0] {
		t.Fatalf("untouched module must share its videos")
	}
	if &next[1].Videos[0] == &cur[1].Videos[0] {
		t.Fatalf("edited module must get a fresh video slice")
	}
	if cur[1].Videos[0].Title != "b1" || cur[1].Videos[1].Title != "b2" {
		t.Fatalf("original mutated: %+v", cur[1].Videos)
	}
	if next[1].Videos[0].Title != "b1 edited" || next[1].Videos[1].Title != "b2" {
		t.Fatalf("edit lost: %+v", next[1].Videos)
	}
}

func TestViewNamesUploadFields(t *testing.T) {
	w := New()
	if err := w.EditCurriculum(func(cur []domain.CourseCurriculum) ([]domain.CourseCurriculum, error) {
		cur = AddModule(AddModule(cur, "A"), "B")
		return AddVideo(cur, 1, domain.CourseVideo{Title: "b1"})
	}); err != nil {
		t.Fatalf("EditCurriculum: %v", err)
	}
	want := []ModuleFields{
		{Note: "module-0-note", Videos: []string{}},
		{Note: "module-1-note", Videos: []string{"module-1-video-0"}},
	}
	if got := w.View().UploadFields; !reflect.DeepEqual(got, want) {
		t.Fatalf("UploadFields: want=%+v got=%+v", want, got)
	}
}

func TestCurriculumOrdersStayContiguous(t *testing.T) {
	cur := AddModule(AddModule(AddModule(nil, "A"), "B"), "C")
	cur, _ = RemoveModule(cur, 0)
	if cur[0].Title != "B" || cur[0].Order != 1 || cur[1].Order != 2 {
		t.Fatalf("RemoveModule: %+v", cur)
	}
	cur = AddModule(cur, "D")
	if cur[2].Order != 3 {
		t.Fatalf("AddModule order: %+v", cur)
	}
	cur, _ = MoveModule(cur, 2, 0)
	var titles []string
	for i, m := range cur {
		titles = append(titles, m.Title)
		if m.Order != i+1 {
			t.Fatalf("MoveModule order: %+v", cur)
		}
	}
	if !reflect.DeepEqual(titles, []string{"D", "B", "C"}) {
		t.Fatalf("MoveModule titles: %v", titles)
	}
	if _, err := RemoveVideo(cur, 0, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("RemoveVideo on empty module: got=%v", err)
	}
	if _, err := RenameModule(cur, 5, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("RenameModule out of range: got=%v", err)
	}
}

func TestSetModuleNoteCopiesNote(t *testing.T) {
	cur := AddModule(nil, "A")
	note := &domain.CourseNote{Title: "Notes", File: "https://b.s3.r.amazonaws.com/notes/1-n.pdf"}
	next, _ := SetModuleNote(cur, 0, note)
	note.Title = "changed"
	if next[0].Note.Title != "Notes" || cur[0].Note != nil {
		t.Fatalf("SetModuleNote: next=%+v cur=%+v", next[0].Note, cur[0].Note)
	}
}

func TestToIndexedMap(t *testing.T) {
	tests := []struct {
		in   []string
		want domain.IndexedList
	}{
		{nil, domain.IndexedList{"item1": ""}},
		{[]string{"", "  "}, domain.IndexedList{"item1": ""}},
		{[]string{"a", "", "b"}, domain.IndexedList{"item1": "a", "item2": "b"}},
		{[]string{" x "}, domain.IndexedList{"item1": "x"}},
	}
	for _, tt := range tests {
		if got := ToIndexedMap(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ToIndexedMap(%q): want=%v got=%v", tt.in, tt.want, got)
		}
	}
}

func TestFromIndexedMapOrdersNumerically(t *testing.T) {
	got := FromIndexedMap(domain.IndexedList{"item10": "j", "item2": "b", "item1": "a", "item3": ""})
	if !reflect.DeepEqual(got, []string{"a", "b", "j"}) {
		t.Fatalf("FromIndexedMap: got=%v", got)
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	w := New()
	if _, err := w.Submit(context.Background(), &fakeSubmitter{}); !errors.Is(err, ErrNotAtReview) {
		t.Fatalf("Submit at basic info: got=%v", err)
	}
}

func TestSubmitFailureShowsBannerAndKeepsState(t *testing.T) {
	w := New()
	toReview(t, w)
	w.SetDetails(Details{TargetAudience: []string{"teachers", "", "parents"}})
	sub := &fakeSubmitter{err: apierr.FromResponse(http.StatusBadRequest, []byte(`{"message":"price must be a decimal"}`))}

	if _, err := w.Submit(context.Background(), sub); err == nil {
		t.Fatalf("Submit: want error")
	}
	if w.Banner() != "price must be a decimal" {
		t.Fatalf("banner: got=%q", w.Banner())
	}
	if w.Current() != StepReview || w.Draft().Basic.Name != "Algebra I" || w.Submitted() != nil {
		t.Fatalf("state after failure: step=%s draft=%+v", w.Current(), w.Draft().Basic)
	}
	w.DismissBanner()
	if w.Banner() != "" {
		t.Fatalf("DismissBanner: got=%q", w.Banner())
	}

	sub.err = nil
	course, err := w.Submit(context.Background(), sub)
	if err != nil || course.ID != "c1" {
		t.Fatalf("resubmit: course=%+v err=%v", course, err)
	}
	p := sub.created[0]
	if !reflect.DeepEqual(p.TargetAudience, domain.IndexedList{"item1": "teachers", "item2": "parents"}) {
		t.Fatalf("target audience: got=%v", p.TargetAudience)
	}
	if !reflect.DeepEqual(p.LearningOutcomes, domain.IndexedList{"item1": ""}) {
		t.Fatalf("learning outcomes: got=%v", p.LearningOutcomes)
	}
	if _, err := w.Submit(context.Background(), sub); !errors.Is(err, ErrSubmitted) {
		t.Fatalf("double submit: got=%v", err)
	}
}

func TestFromCourseSubmitsUpdate(t *testing.T) {
	w := FromCourse(domain.Course{
		ID:                 "42",
		Name:               "Biology",
		Description:        "Cells",
		PreviewDescription: "Intro",
		Category:           &domain.Ref{ID: "3"},
		Curriculum:         []domain.CourseCurriculum{{Title: "Cells", Order: 7}},
		LearningOutcomes:   domain.IndexedList{"item2": "explain mitosis", "item1": "name organelles"},
	})
	if got := w.Draft().Details.LearningOutcomes; !reflect.DeepEqual(got, []string{"name organelles", "explain mitosis"}) {
		t.Fatalf("outcomes: got=%v", got)
	}
	for i := 0; i < 3; i++ {
		if err := w.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	sub := &fakeSubmitter{}
	if _, err := w.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	p, ok := sub.updated["42"]
	if !ok || len(sub.created) != 0 {
		t.Fatalf("want update of 42, got created=%d updated=%v", len(sub.created), sub.updated)
	}
	if p.Category != "3" || p.Curriculum[0].Order != 1 {
		t.Fatalf("payload: %+v", p)
	}
}

func TestStoreKeepsOneDraftPerSession(t *testing.T) {
	s := NewStore()
	a := s.Get("a")
	if s.Get("a") != a || s.Get("b") == a {
		t.Fatalf("store must key drafts by session")
	}
	s.Discard("a")
	if s.Get("a") == a {
		t.Fatalf("Discard must drop the draft")
	}
}

func TestStepTextRoundTrip(t *testing.T) {
	for s := StepBasicInfo; s <= StepReview; s++ {
		raw, _ := s.MarshalText()
		var got Step
		if err := got.UnmarshalText(raw); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", raw, err)
		}
		if got != s {
			t.Fatalf("step: want=%v got=%v", s, got)
		}
	}
	var bad Step
	if err := bad.UnmarshalText([]byte("publish")); err == nil {
		t.Fatalf("unknown step: want error")
	}
}
