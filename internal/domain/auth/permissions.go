package auth

const (
	RoleSuperAdmin     = "superadmin"
	RoleAdmin          = "admin"
	RolePayrollOfficer = "payroll_officer"
	RoleEmployee       = "employee"
)

const (
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermPayrollRead     = "payroll.read"
	PermPayrollRun      = "payroll.run"
	PermPayrollApprove  = "payroll.approve"
	PermPayslipsRead    = "payslips.read"
	PermPayslipsReadAll = "payslips.read_all"
	PermUsersManage     = "users.manage"
	PermAuditRead       = "audit.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermPayrollRead,
	PermPayrollRun,
	PermPayrollApprove,
	PermPayslipsRead,
	PermPayslipsReadAll,
	PermUsersManage,
	PermAuditRead,
}

// RolePermissions is the single source of truth for the authorization
// policy. The payroll core never consults it; the HTTP boundary does.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermPayslipsRead,
	},
	RolePayrollOfficer: {
		PermEmployeesRead,
		PermPayrollRead,
		PermPayrollRun,
		PermPayslipsRead,
		PermPayslipsReadAll,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollApprove,
		PermPayslipsRead,
		PermPayslipsReadAll,
		PermUsersManage,
		PermAuditRead,
	},
	RoleSuperAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollApprove,
		PermPayslipsRead,
		PermPayslipsReadAll,
		PermUsersManage,
		PermAuditRead,
	},
}
