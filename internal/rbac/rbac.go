package rbac

import "grievance/backend/internal/models"

type Action string

const (
	ActionSubmit       Action = "submit"
	ActionListOwn      Action = "list_own"
	ActionListAll      Action = "list_all"
	ActionListDept     Action = "list_department"
	ActionUpdateStatus Action = "update_status"
	ActionClassify     Action = "classify"
	ActionViewStats    Action = "view_stats"
)

func Can(role models.Role, action Action) bool {
	switch role {
	case models.RoleAdmin:
		return action != ActionListOwn
	case models.RoleDepartmentOfficial:
		return action == ActionListDept || action == ActionUpdateStatus
	case models.RoleCitizen:
		return action == ActionSubmit || action == ActionListOwn
	default:
		return false
	}
}

// CanAccessDepartment reports whether a principal may act on grievances of
// department. Officials are limited to their own department.
func CanAccessDepartment(role models.Role, ownDepartment, department string) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleDepartmentOfficial:
		return ownDepartment != "" && ownDepartment == department
	default:
		return false
	}
}
