package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
)

const (
	PermLeaveRead     = "leave.read"
	PermLeaveWrite    = "leave.write"
	PermLeaveApprove  = "leave.approve"
	PermLeaveAdmin    = "leave.admin"
	PermMemoRead      = "memo.read"
	PermMemoWrite     = "memo.write"
	PermMemoApprove   = "memo.approve"
	PermWorkflowRead  = "workflow.read"
	PermWorkflowWrite = "workflow.write"
	PermReportsRead   = "reports.read"
)

// RolePermissions is the static permission map. Role and permission editing
// belongs to the surrounding directory service, not this one.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermLeaveRead,
		PermLeaveWrite,
		PermMemoRead,
	},
	RoleManager: {
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermMemoRead,
		PermMemoWrite,
		PermMemoApprove,
		PermWorkflowRead,
		PermReportsRead,
	},
	RoleHR: {
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermLeaveAdmin,
		PermMemoRead,
		PermMemoWrite,
		PermMemoApprove,
		PermWorkflowRead,
		PermWorkflowWrite,
		PermReportsRead,
	},
}

func HasPermission(roleName, permission string) bool {
	for _, candidate := range RolePermissions[roleName] {
		if candidate == permission {
			return true
		}
	}
	return false
}
