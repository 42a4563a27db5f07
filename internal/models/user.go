package models

type UserRole string

const (
	RoleStudent  UserRole = "Student"
	RoleLecturer UserRole = "Lecturer"
	RoleAdmin    UserRole = "Admin"
)

// User is the authenticated caller extracted from the casdoor token. Staff
// documents themselves live in the read-only `staff` collection and are not
// managed by this service.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	default:
		return false
	}
}
