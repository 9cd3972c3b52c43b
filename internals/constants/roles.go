package constants

import "fmt"

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleTrainer    = "trainer"
	RoleTrainee    = "trainee"
)

const (
	ErrOnlySuperAdminAccess = "only the super admin may access %s"
)

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminAccess, feature)
}

var (
	AllRoles = []string{RoleSuperAdmin, RoleAdmin, RoleTrainer, RoleTrainee}

	TrainerAndAbove = []string{RoleSuperAdmin, RoleAdmin, RoleTrainer}

	AdminAndAbove = []string{RoleSuperAdmin, RoleAdmin}
)

// roleRank orders roles; a higher rank inherits everything below it.
var roleRank = map[string]int{
	RoleTrainee:    1,
	RoleTrainer:    2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

func IsValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast reports whether role ranks at or above min.
func RoleAtLeast(role, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	return r >= roleRank[min]
}

func IsAdmin(role string) bool { return RoleAtLeast(role, RoleAdmin) }
