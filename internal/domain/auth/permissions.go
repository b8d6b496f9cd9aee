package auth

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

const (
	PermChecksRead      = "checks.read"
	PermChecksWrite     = "checks.write"
	PermChecksDelete    = "checks.delete"
	PermRetentionSweep  = "retention.sweep"
	PermRetentionLedger = "retention.ledger"
	PermAlertsRead      = "alerts.read"
	PermAlertsManage    = "alerts.manage"
	PermAuditRead       = "audit.read"
	PermReportsExport   = "reports.export"
	PermUsersManage     = "users.manage"
)

// RolePermissions is the closed role model. Roles are fixed at three,
// so permission checks are a map lookup rather than a store round trip.
var RolePermissions = map[string][]string{
	RoleViewer: {
		PermChecksRead,
		PermAlertsRead,
		PermReportsExport,
	},
	RoleManager: {
		PermChecksRead,
		PermChecksWrite,
		PermChecksDelete,
		PermRetentionSweep,
		PermRetentionLedger,
		PermAlertsRead,
		PermAlertsManage,
		PermAuditRead,
		PermReportsExport,
	},
	RoleAdmin: {
		PermChecksRead,
		PermChecksWrite,
		PermChecksDelete,
		PermRetentionSweep,
		PermRetentionLedger,
		PermAlertsRead,
		PermAlertsManage,
		PermAuditRead,
		PermReportsExport,
		PermUsersManage,
	},
}

func RoleHasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
