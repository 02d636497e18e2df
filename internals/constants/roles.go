package constants

import "fmt"

const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
	RoleAdmin   = "admin"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess   = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyTrainersCanAccess = "❌ Hanya trainer yang boleh mengakses fitur %s."
	ErrOnlyMembersCanAccess  = "❌ Hanya member yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorTrainer(feature string) string {
	return fmt.Sprintf(ErrOnlyTrainersCanAccess, feature)
}

func RoleErrorMember(feature string) string {
	return fmt.Sprintf(ErrOnlyMembersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleMember,
		RoleTrainer,
		RoleAdmin,
	}

	TrainerAndAdmin = []string{
		RoleTrainer,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	TrainerOnly = []string{
		RoleTrainer,
	}
)

func IsValidRole(r string) bool {
	for _, x := range AllRoles {
		if x == r {
			return true
		}
	}
	return false
}
