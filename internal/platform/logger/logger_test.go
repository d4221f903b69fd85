package logger

import "testing"

func TestSanitizeValue(t *testing.T) {
	const jwt = "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VyX2lkIjo3fQ.c2ln"
	tests := []struct {
		key  string
		val  interface{}
		want interface{}
	}{
		{key: "access", val: "a1", want: "[REDACTED]"},
		{key: "refresh_token", val: "r1", want: "[REDACTED]"},
		{key: "meeting_link", val: "https://zoom.us/j/1?pwd=x", want: "[REDACTED]"},
		{key: "email", val: "ada@example.com", want: "[REDACTED]"},
		{key: "note", val: jwt, want: "[REDACTED]"},
		{key: "url", val: "https://bucket.s3.us-east-1.amazonaws.com/a.pdf?X-Amz-Signature=abc", want: "https://bucket.s3.us-east-1.amazonaws.com/a.pdf"},
		{key: "url", val: "https://cdn.test/a.pdf", want: "https://cdn.test/a.pdf"},
		{key: "field", val: "preview_video", want: "preview_video"},
		{key: "attempt", val: 2, want: 2},
	}
	for _, tt := range tests {
		if got := sanitizeValue(tt.key, tt.val); got != tt.want {
			t.Fatalf("sanitizeValue(%q, %v): want=%v got=%v", tt.key, tt.val, tt.want, got)
		}
	}
}

func TestHashedKeysAreStableAndOpaque(t *testing.T) {
	a := sanitizeValue("session_id", "sid-1")
	b := sanitizeValue("session_id", "sid-1")
	if a != b {
		t.Fatalf("hash not stable: %v vs %v", a, b)
	}
	if s, ok := a.(string); !ok || s == "sid-1" || len(s) != len("hash:")+12 {
		t.Fatalf("session_id: got=%v", a)
	}
	if got := sanitizeValue("student_id", ""); got != "" {
		t.Fatalf("empty id: want=\"\" got=%v", got)
	}
}
