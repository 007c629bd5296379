package rbac

// Role names as stored in the users/students tables and token claims.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// RolePermissions is the default policy. Admins own the whole surface;
// students get read access to their organization's papers and
// notifications plus their own password.
var RolePermissions = map[string][]string{
	RoleStudent: {
		"paper:view",
		"notification:view",
		"user:change_password",
	},
	RoleAdmin: {"*"},
}
