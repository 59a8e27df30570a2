package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Organization administrator
	RoleEmployee Role = "employee" // Regular employee
)

// Identity is the authenticated caller as carried by the access token.
// This service never issues tokens, it only reads them.
type Identity struct {
	UserID         string
	EmployeeID     string
	OrganizationID string
	Role           Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanView reports whether the caller may read data belonging to employeeID.
func (i Identity) CanView(employeeID string) bool {
	return i.IsAdmin() || i.EmployeeID == employeeID
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleEmployee:
		return true
	}
	return false
}
