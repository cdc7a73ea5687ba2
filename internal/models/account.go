package models

import "time"

// AccountKind distinguishes the two ledgers that hold talents.
type AccountKind string

const (
	AccountStudent AccountKind = "student"
	AccountTeacher AccountKind = "teacher"
)

// Student is a talent-holding child account. A student belongs to the teacher
// whose name matches TeacherName.
type Student struct {
	ID          int64     `json:"id" db:"id" example:"12"`
	Name        string    `json:"name" db:"name" example:"이하은"`
	Phone       string    `json:"phone,omitempty" db:"phone" example:"010-1234-5678"`
	TeacherName string    `json:"teacherName" db:"teacher_name" example:"김선생"`
	Talents     int64     `json:"talents" db:"talents" example:"14"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Teacher struct {
	ID        int64     `json:"id" db:"id" example:"3"`
	Name      string    `json:"name" db:"name" example:"김선생"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Talents   int64     `json:"talents" db:"talents" example:"20"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Teaches reports whether s is assigned to t.
func (t *Teacher) Teaches(s *Student) bool {
	return t != nil && s != nil && t.Name != "" && s.TeacherName == t.Name
}

// Role is the kind of authenticated caller.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Caller is the authenticated identity behind a request.
type Caller struct {
	Role Role  `json:"role"`
	ID   int64 `json:"id"`
}
