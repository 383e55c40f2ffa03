package model

import "strings"

// Role is the viewer's role as reported by the profile endpoint.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleUnknown Role = ""
)

// ParseRole normalizes the backend's role string. Anything that is not
// "teacher" or "student" stays unknown and gets the student-side view.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "teacher":
		return RoleTeacher
	case "student":
		return RoleStudent
	default:
		return RoleUnknown
	}
}

// RoleView bundles everything that depends on the viewer's role: which
// endpoint serves their lessons and what to show when a lesson has no
// counterpart.
type RoleView struct {
	LessonsPath string
	EmptyLabel  string
}

// View returns the role-specific view settings. Teachers get their taught
// lessons; everyone else gets the upcoming-lessons endpoint, which the
// backend may not implement yet.
func (r Role) View() RoleView {
	if r == RoleTeacher {
		return RoleView{
			LessonsPath: "/api/lessons/my-lessons",
			EmptyLabel:  "No students",
		}
	}
	return RoleView{
		LessonsPath: "/api/lessons/my-upcoming",
		EmptyLabel:  "(teachers TBD)",
	}
}

// Counterpart selects the other-role participants of a lesson relative to
// the viewer: students for a teacher, teachers otherwise. The backend does
// not populate teachers on any known endpoint yet, so the student side is
// empty in practice.
func (r Role) Counterpart(l Lesson) []Participant {
	if r == RoleTeacher {
		return l.Students
	}
	return l.Teachers
}

// Title returns the role capitalized for display, "User" when unknown.
func (r Role) Title() string {
	switch r {
	case RoleTeacher:
		return "Teacher"
	case RoleStudent:
		return "Student"
	default:
		return "User"
	}
}
