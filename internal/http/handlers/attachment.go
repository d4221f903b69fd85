package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/facilitator-console/internal/domain"
	"github.com/yungbote/facilitator-console/internal/platform/objectstore"
)

// formAttachment opens the named multipart file. It returns nil when the
// request is not multipart or carries no such file; the closer is never nil.
func formAttachment(c *gin.Context, field string) (*domain.Attachment, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &domain.Attachment{
		Filename:    fh.Filename,
		ContentType: objectstore.ContentTypeFor(fh.Filename, fh.Header.Get("Content-Type")),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}
