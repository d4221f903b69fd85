package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
)

// encodedBody is serialized once so the post-refresh retry can resend it.
type encodedBody struct {
	contentType string
	data        []byte
}

func (b *encodedBody) reader() io.Reader {
	if b == nil {
		return nil
	}
	return bytes.NewReader(b.data)
}

func jsonBody(v any) (*encodedBody, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return &encodedBody{contentType: "application/json", data: raw}, nil
}

func formBody(values url.Values) *encodedBody {
	return &encodedBody{contentType: "application/x-www-form-urlencoded", data: []byte(values.Encode())}
}

type multipartFile struct {
	field       string
	filename    string
	contentType string
	content     io.Reader
}

// Multipart is a multipart/form-data payload of scalar fields and file parts.
// It is encoded once; reusing the same value for a retry resends identical bytes.
type Multipart struct {
	fields  [][2]string
	files   []multipartFile
	encoded *encodedBody
}

func NewMultipart() *Multipart { return &Multipart{} }

// Field adds a scalar part. Empty values are sent as empty parts.
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

// FieldIf adds the part only when value is non-blank.
func (m *Multipart) FieldIf(name, value string) *Multipart {
	if strings.TrimSpace(value) == "" {
		return m
	}
	return m.Field(name, value)
}

// File adds a binary part. content is read once, when the request is encoded.
func (m *Multipart) File(field, filename, contentType string, content io.Reader) *Multipart {
	m.files = append(m.files, multipartFile{field: field, filename: filename, contentType: contentType, content: content})
	return m
}

func (m *Multipart) encode() (*encodedBody, error) {
	if m.encoded != nil {
		return m.encoded, nil
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write multipart field %q: %w", f[0], err)
		}
	}
	for _, f := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		ct := f.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create multipart file %q: %w", f.field, err)
		}
		if _, err := io.Copy(part, f.content); err != nil {
			return nil, fmt.Errorf("copy multipart file %q: %w", f.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	m.encoded = &encodedBody{contentType: w.FormDataContentType(), data: buf.Bytes()}
	return m.encoded, nil
}
