package authz

import "github.com/yukikurage/task-dashboard-api/internal/models"

// Role sets used by the route table. There is no inheritance between roles:
// every operation names the roles it admits.
var (
	Leadership = []models.Role{models.RoleCEO, models.RoleManager}
	CEOOnly    = []models.Role{models.RoleCEO}
)

// HasRole reports whether role is one of allowed.
func HasRole(role models.Role, allowed ...models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// UserHasRole is HasRole for a user; a nil user has no role.
func UserHasRole(user *models.User, allowed ...models.Role) bool {
	if user == nil {
		return false
	}
	return HasRole(user.Role, allowed...)
}
