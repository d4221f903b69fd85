package domain

type User struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type DashboardStats struct {
	TotalCourses        int `json:"total_courses"`
	TotalStudents       int `json:"total_students"`
	TotalAssignments    int `json:"total_assignments"`
	PendingSubmissions  int `json:"pending_submissions"`
	UpcomingLiveClasses int `json:"upcoming_live_classes"`
}
