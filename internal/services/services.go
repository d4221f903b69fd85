package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/facilitator-console/internal/apiclient"
)

// Resource names double as cache keys.
const (
	ResourceCourses     = "courses"
	ResourceCategories  = "course-categories"
	ResourceAssignments = "assignments"
	ResourceSubmissions = "assignment-submissions"
	ResourceStudents    = "students"
	ResourceLiveClasses = "live-classes"
	ResourceLibrary     = "course-library"
	ResourceDashboard   = "dashboard"
)

// API is the slice of apiclient.Client the resource services use.
type API interface {
	Get(ctx context.Context, endpoint string, out any) error
	Post(ctx context.Context, endpoint string, body, out any) error
	Put(ctx context.Context, endpoint string, body, out any) error
	Patch(ctx context.Context, endpoint string, body, out any) error
	Delete(ctx context.Context, endpoint string, out any) error
	PostMultipart(ctx context.Context, endpoint string, m *apiclient.Multipart, out any) error
	PatchMultipart(ctx context.Context, endpoint string, m *apiclient.Multipart, out any) error
}

// Filters are optional list query parameters; blank values are ignored.
type Filters map[string]string

func collection(resource string) string {
	return "/" + resource + "/"
}

func member(resource, id string) string {
	return fmt.Sprintf("/%s/%s/", resource, url.PathEscape(strings.TrimSpace(id)))
}
