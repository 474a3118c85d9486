// Package policy decides whether a caller may perform an action on a resource.
// Decisions are pure: callers resolve ownership before asking.
package policy

import "github.com/spec-kit/order-service/internal/domain"

// Action identifies a guarded operation.
type Action string

const (
	ActionViewOrder       Action = "order:view"
	ActionListAllOrders   Action = "order:list_all"
	ActionCreateOrder     Action = "order:create"
	ActionCommentOrder    Action = "order:comment"
	ActionCancelOrder     Action = "order:cancel"
	ActionTransitionOrder Action = "order:transition"
	ActionAddOrderItem    Action = "order:add_item"
	ActionViewReceipt     Action = "order:receipt"
	ActionViewOrderItem   Action = "orderitem:view"
	ActionEditOrderItem   Action = "orderitem:edit"
	ActionPriceOrderItem  Action = "orderitem:price"
	ActionDeleteOrderItem Action = "orderitem:delete"
	ActionViewCatalog     Action = "item:view"
	ActionManageCatalog   Action = "item:manage"
	ActionViewCustomer    Action = "customer:view"
	ActionUpdateCustomer  Action = "customer:update"
	ActionManageUsers     Action = "user:manage"
	ActionViewMetrics     Action = "metrics:view"
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Caller describes the authenticated principal.
type Caller struct {
	UserID     string
	CustomerID string
	Roles      []domain.Role
}

// IsAdmin reports admin group membership.
func (c Caller) IsAdmin() bool {
	return domain.HasRole(c.Roles, domain.RoleAdmin)
}

// Resource carries the ownership facts of the target object.
// OwnerCustomerID is the order's customer (or the order item's parent order's customer);
// OwnerUserID is set for customer profiles.
type Resource struct {
	OwnerCustomerID string
	OwnerUserID     string
}

type rule func(Caller, Resource) bool

var rules = map[Action]rule{
	ActionViewOrder:       ownerOrAdmin,
	ActionCommentOrder:    ownerOrAdmin,
	ActionCancelOrder:     ownerOrAdmin,
	ActionAddOrderItem:    ownerOrAdmin,
	ActionViewReceipt:     ownerOrAdmin,
	ActionViewOrderItem:   ownerOrAdmin,
	ActionEditOrderItem:   ownerOrAdmin,
	ActionDeleteOrderItem: ownerOrAdmin,
	ActionCreateOrder:     hasCustomer,
	ActionListAllOrders:   adminOnly,
	ActionTransitionOrder: adminOnly,
	ActionPriceOrderItem:  adminOnly,
	ActionViewCatalog:     adminOnly,
	ActionManageCatalog:   adminOnly,
	ActionManageUsers:     adminOnly,
	ActionViewMetrics:     adminOnly,
	ActionViewCustomer:    selfOrAdmin,
	ActionUpdateCustomer:  selfOrAdmin,
}

// Authorize returns Allow when caller may perform action on resource. Unknown actions are denied.
func Authorize(action Action, caller Caller, resource Resource) Decision {
	check, ok := rules[action]
	if !ok {
		return Deny
	}
	return Decision(check(caller, resource))
}

func adminOnly(c Caller, _ Resource) bool {
	return c.IsAdmin()
}

func hasCustomer(c Caller, _ Resource) bool {
	return c.CustomerID != ""
}

func ownerOrAdmin(c Caller, r Resource) bool {
	if c.IsAdmin() {
		return true
	}
	return c.CustomerID != "" && c.CustomerID == r.OwnerCustomerID
}

func selfOrAdmin(c Caller, r Resource) bool {
	if c.IsAdmin() {
		return true
	}
	return c.UserID != "" && c.UserID == r.OwnerUserID
}
