package domain

import "time"

// Student is the single canonical roster shape.
type Student struct {
	ID              ID               `json:"id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone,omitempty"`
	EnrolledCourses []CourseSnapshot `json:"enrolled_courses"`
	DateJoined      *time.Time       `json:"date_joined,omitempty"`
}

func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentSnapshot is the student embedded in a submission.
type StudentSnapshot struct {
	ID        ID     `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// StudentPatch carries only the fields being changed.
type StudentPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}
