package objectstore

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"intro video (final).mp4": "intro_video__final_.mp4",
		"notes-v2.pdf":            "notes-v2.pdf",
		"résumé.docx":             "r_sum_.docx",
		"a/b\\c.png":              "a_b_c.png",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got, want := ObjectKey("courses/videos/", now, "Week 1.mp4"), "courses/videos/1700000000123-Week_1.mp4"; got != want {
		t.Fatalf("ObjectKey: want=%q got=%q", want, got)
	}
	if got, want := ObjectKey("", now, "a.pdf"), "1700000000123-a.pdf"; got != want {
		t.Fatalf("ObjectKey without folder: want=%q got=%q", want, got)
	}
}

func TestContentTypeFor(t *testing.T) {
	if got := ContentTypeFor("clip.MP4", ""); got != "video/mp4" {
		t.Fatalf("extension fallback: got=%q", got)
	}
	if got := ContentTypeFor("clip.mp4", "video/webm"); got != "video/webm" {
		t.Fatalf("declared type wins: got=%q", got)
	}
	if got := ContentTypeFor("blob", ""); got != defaultContentType {
		t.Fatalf("unknown extension: got=%q", got)
	}
}

func TestS3URLRoundTrip(t *testing.T) {
	key := "library/1700000000123-notes.pdf"
	u := S3PublicURL("edu-assets", "eu-west-1", key)
	if want := "https://edu-assets.s3.eu-west-1.amazonaws.com/library/1700000000123-notes.pdf"; u != want {
		t.Fatalf("S3PublicURL: want=%q got=%q", want, u)
	}
	got, err := S3KeyFromURL("edu-assets", "eu-west-1", u)
	if err != nil {
		t.Fatalf("S3KeyFromURL: %v", err)
	}
	if got != key {
		t.Fatalf("S3KeyFromURL: want=%q got=%q", key, got)
	}
	if _, err := S3KeyFromURL("edu-assets", "eu-west-1", "https://edu-assets.s3.eu-west-1.amazonaws.com/"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("empty path: want=%v got=%v", ErrEmptyKey, err)
	}
}

func TestS3KeyFromURLRejectsOtherHosts(t *testing.T) {
	for _, raw := range []string{
		"https://evil.example.com/courses/previews/123-victim.mp4",
		"https://other-bucket.s3.eu-west-1.amazonaws.com/courses/previews/123-victim.mp4",
		"https://edu-assets.s3.us-east-1.amazonaws.com/courses/previews/123-victim.mp4",
		"http://edu-assets.s3.eu-west-1.amazonaws.com/courses/previews/123-victim.mp4",
	} {
		if key, err := S3KeyFromURL("edu-assets", "eu-west-1", raw); !errors.Is(err, ErrForeignURL) {
			t.Fatalf("%s: want=%v got key=%q err=%v", raw, ErrForeignURL, key, err)
		}
	}
}

func TestS3EndpointKeyFromURL(t *testing.T) {
	s := &s3Store{cfg: S3Config{Bucket: "edu", Region: "us-east-1", Endpoint: "http://localhost:9000/"}}
	u := s.PublicURL("videos/1-a.mp4")
	if want := "http://localhost:9000/edu/videos/1-a.mp4"; u != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, u)
	}
	key, err := s.KeyFromURL(u)
	if err != nil || key != "videos/1-a.mp4" {
		t.Fatalf("KeyFromURL: want=%q got=%q err=%v", "videos/1-a.mp4", key, err)
	}
	for _, raw := range []string{
		"http://evil.example.com:9000/edu/videos/1-a.mp4",
		"http://localhost:9000/other/videos/1-a.mp4",
	} {
		if _, err := s.KeyFromURL(raw); !errors.Is(err, ErrForeignURL) {
			t.Fatalf("%s: want=%v got=%v", raw, ErrForeignURL, err)
		}
	}
}

func TestGCSKeyFromURL(t *testing.T) {
	g := &gcsStore{cfg: GCSConfig{Bucket: "edu"}}
	key, err := g.KeyFromURL(g.PublicURL("videos/1-a.mp4"))
	if err != nil || key != "videos/1-a.mp4" {
		t.Fatalf("KeyFromURL: want=%q got=%q err=%v", "videos/1-a.mp4", key, err)
	}
	if _, err := g.KeyFromURL("https://storage.googleapis.com/other/videos/1-a.mp4"); !errors.Is(err, ErrForeignURL) {
		t.Fatalf("foreign bucket: want=%v got=%v", ErrForeignURL, err)
	}
}

func TestProgressReaderReportsBytes(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 10)
	var reports []int64
	r := NewProgressReader(bytes.NewReader(payload), int64(len(payload)), func(read, total int64) {
		if total != 10 {
			t.Fatalf("total: want=10 got=%d", total)
		}
		reports = append(reports, read)
	})
	buf := make([]byte, 4)
	for {
		_, err := r.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if len(reports) != 3 || reports[2] != 10 {
		t.Fatalf("reports: got=%v", reports)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	_, _ = r.Read(buf)
	if last := reports[len(reports)-1]; last != 4 {
		t.Fatalf("after rewind: want=4 got=%d", last)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeS3 {
		t.Fatalf("default: want=%q got=%q err=%v", ModeS3, m, err)
	}
	if m, err := ParseMode("GCS"); err != nil || m != ModeGCS {
		t.Fatalf("gcs: want=%q got=%q err=%v", ModeGCS, m, err)
	}
	var cfgErr *ConfigError
	if _, err := ParseMode("ftp"); !errors.As(err, &cfgErr) {
		t.Fatalf("invalid: want *ConfigError got=%v", err)
	}
}
