package identity

import (
	"slices"
	"sort"
	"strings"

	"github.com/exonyb/backoffice/internal/domain/shared"
)

// Resources guarded by permissions
const (
	ResourceClient       = "client"
	ResourceSupplier     = "supplier"
	ResourceProduct      = "product"
	ResourceOrder        = "order"
	ResourceReturn       = "return"
	ResourceAccounting   = "accounting"
	ResourceNotification = "notification"
	ResourceAudit        = "audit"
	ResourceUser         = "user"
	ResourceReport       = "report"
)

// Actions a permission grants on a resource
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AllResources lists every guarded resource
var AllResources = []string{
	ResourceClient, ResourceSupplier, ResourceProduct, ResourceOrder, ResourceReturn,
	ResourceAccounting, ResourceNotification, ResourceAudit, ResourceUser, ResourceReport,
}

// AllActions lists every action
var AllActions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// Permission is a "resource:action" code, e.g. "product:create"
type Permission string

// NewPermission builds a permission from its parts
func NewPermission(resource, action string) Permission {
	return Permission(resource + ":" + action)
}

// ParsePermission validates a permission code
func ParsePermission(code string) (Permission, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	parts := strings.Split(code, ":")
	if len(parts) != 2 {
		return "", shared.NewBadRequestError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	if !slices.Contains(AllResources, parts[0]) {
		return "", shared.NewBadRequestError("INVALID_PERMISSION_CODE", "Unknown permission resource: "+parts[0])
	}
	if !slices.Contains(AllActions, parts[1]) {
		return "", shared.NewBadRequestError("INVALID_PERMISSION_CODE", "Unknown permission action: "+parts[1])
	}
	return Permission(code), nil
}

// Resource returns the resource part
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(string(p), ":")
	return resource
}

// Action returns the action part
func (p Permission) Action() string {
	_, action, _ := strings.Cut(string(p), ":")
	return action
}

// String returns the permission code
func (p Permission) String() string {
	return string(p)
}

// Role is a named bundle of default permissions
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// DefaultPermissions returns the permissions granted by the role alone
func (r Role) DefaultPermissions() []Permission {
	switch r {
	case RoleAdmin:
		return allPermissions()
	case RoleManager:
		perms := make([]Permission, 0, len(AllResources)*len(AllActions))
		for _, p := range allPermissions() {
			if p.Resource() == ResourceUser || p == NewPermission(ResourceAudit, ActionDelete) {
				continue
			}
			perms = append(perms, p)
		}
		return perms
	case RoleEmployee:
		perms := []Permission{NewPermission(ResourceNotification, ActionRead)}
		for _, res := range []string{ResourceClient, ResourceSupplier, ResourceProduct, ResourceOrder, ResourceReturn} {
			perms = append(perms, NewPermission(res, ActionRead))
		}
		for _, res := range []string{ResourceClient, ResourceOrder, ResourceReturn} {
			perms = append(perms, NewPermission(res, ActionCreate), NewPermission(res, ActionUpdate))
		}
		return perms
	}
	return nil
}

// EffectivePermissions merges role defaults with extra grants, sorted and deduplicated
func EffectivePermissions(role Role, extra []string) []string {
	set := make(map[string]struct{})
	for _, p := range role.DefaultPermissions() {
		set[p.String()] = struct{}{}
	}
	for _, p := range extra {
		set[p] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func allPermissions() []Permission {
	perms := make([]Permission, 0, len(AllResources)*len(AllActions))
	for _, res := range AllResources {
		for _, act := range AllActions {
			perms = append(perms, NewPermission(res, act))
		}
	}
	return perms
}
