package models

type Resource string

const (
	ResourceTransaction Resource = "transaction"
	ResourceWallet      Resource = "wallet"
	ResourceCompany     Resource = "company"
	ResourceUser        Resource = "user"
)

type Action string

const (
	ActionViewAny     Action = "viewAny"
	ActionView        Action = "view"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionRestore     Action = "restore"
	ActionForceDelete Action = "forceDelete"
)

var (
	allRoles       = []UserRole{UserRoleSuperAdmin, UserRoleAdmin, UserRoleEditor}
	managerRoles   = []UserRole{UserRoleSuperAdmin, UserRoleAdmin}
	superAdminOnly = []UserRole{UserRoleSuperAdmin}
)

var policies = map[Resource]map[Action][]UserRole{
	ResourceTransaction: {
		ActionViewAny:     allRoles,
		ActionView:        allRoles,
		ActionCreate:      allRoles,
		ActionUpdate:      allRoles,
		ActionDelete:      managerRoles,
		ActionRestore:     superAdminOnly,
		ActionForceDelete: superAdminOnly,
	},
	ResourceWallet: {
		ActionViewAny:     allRoles,
		ActionView:        allRoles,
		ActionCreate:      managerRoles,
		ActionUpdate:      managerRoles,
		ActionDelete:      managerRoles,
		ActionRestore:     superAdminOnly,
		ActionForceDelete: superAdminOnly,
	},
	ResourceCompany: {
		ActionViewAny:     managerRoles,
		ActionView:        managerRoles,
		ActionCreate:      superAdminOnly,
		ActionUpdate:      managerRoles,
		ActionDelete:      superAdminOnly,
		ActionRestore:     superAdminOnly,
		ActionForceDelete: superAdminOnly,
	},
	ResourceUser: {
		ActionViewAny:     superAdminOnly,
		ActionView:        superAdminOnly,
		ActionCreate:      superAdminOnly,
		ActionUpdate:      superAdminOnly,
		ActionDelete:      superAdminOnly,
		ActionRestore:     superAdminOnly,
		ActionForceDelete: superAdminOnly,
	},
}

// Can reports whether role may perform action on resource.
// Unknown roles, resources and actions are denied.
func Can(role UserRole, resource Resource, action Action) bool {
	for _, r := range policies[resource][action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanOnUser applies the user policy to a specific target row.
// Nobody may delete or force delete their own account.
func CanOnUser(actorId int, role UserRole, targetId int, action Action) bool {
	if (action == ActionDelete || action == ActionForceDelete) && actorId == targetId {
		return false
	}
	return Can(role, ResourceUser, action)
}
