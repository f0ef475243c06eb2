package scheduling

import (
	"slices"

	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// Action は権限表で判定する操作です
type Action string

const (
	ActionViewAdmin        Action = "view-admin"
	ActionManageRooms      Action = "manage-rooms"
	ActionManageRoles      Action = "manage-roles"
	ActionViewAllBookings  Action = "view-all-bookings"
	ActionCancelAnyBooking Action = "cancel-any-booking"
	ActionViewStats        Action = "view-stats"
	ActionCancelOwnBooking Action = "cancel-own-booking"
)

// capabilities はロールと操作の組から許可を引く唯一の権限表です
// 表にない組はすべて拒否です
var capabilities = map[model.Role]map[Action]bool{
	model.RoleUser: {
		ActionCancelOwnBooking: true,
	},
	model.RoleManager: {
		ActionViewAdmin:        true,
		ActionViewAllBookings:  true,
		ActionCancelAnyBooking: true,
		ActionViewStats:        true,
		ActionCancelOwnBooking: true,
	},
	model.RoleAdmin: {
		ActionViewAdmin:        true,
		ActionManageRooms:      true,
		ActionManageRoles:      true,
		ActionViewAllBookings:  true,
		ActionCancelAnyBooking: true,
		ActionViewStats:        true,
		ActionCancelOwnBooking: true,
	},
}

// Can はロールが操作を許可されているかを返します
func Can(role model.Role, action Action) bool {
	return capabilities[role][action]
}

// Authorize は user が操作を許可されていなければ Unauthorized を返します
func Authorize(user *model.User, action Action) error {
	if user == nil {
		return reject(ReasonUnauthorized, "login required for %s", action)
	}
	if !Can(user.Role, action) {
		return reject(ReasonUnauthorized, "role %q may not %s", user.Role, action)
	}
	return nil
}

// View は画面です
type View string

const (
	ViewHome      View = "home"
	ViewDashboard View = "dashboard"
	ViewBooking   View = "booking"
	ViewProfile   View = "profile"
	ViewAdmin     View = "admin"
)

// Tab は管理画面内のタブです
type Tab string

const (
	TabRooms    Tab = "rooms"
	TabAccess   Tab = "access"
	TabBookings Tab = "bookings"
	TabStats    Tab = "stats"
)

var adminTabs = []Tab{TabRooms, TabAccess, TabBookings, TabStats}

var tabActions = map[Tab]Action{
	TabRooms:    ActionManageRooms,
	TabAccess:   ActionManageRoles,
	TabBookings: ActionViewAllBookings,
	TabStats:    ActionViewStats,
}

// CanAccessTab はロールが管理画面のタブを開けるかを返します
func CanAccessTab(role model.Role, tab Tab) bool {
	action, ok := tabActions[tab]
	return ok && Can(role, action)
}

// VisibleTabs はロールが開けるタブを表示順に返します
func VisibleTabs(role model.Role) []Tab {
	var tabs []Tab
	for _, t := range adminTabs {
		if CanAccessTab(role, t) {
			tabs = append(tabs, t)
		}
	}
	return tabs
}

// DefaultTab は管理画面に入ったときに最初に開くタブです
func DefaultTab(role model.Role) (Tab, bool) {
	switch {
	case Can(role, ActionManageRooms):
		return TabRooms, true
	case Can(role, ActionViewAllBookings):
		return TabBookings, true
	default:
		return "", false
	}
}

// NavState はナビゲーションの状態です
// Tab は View が admin のときだけ意味を持ちます
type NavState struct {
	Role model.Role
	View View
	Tab  Tab
}

// NewNavState はログイン直後の状態を返します
// user が nil の場合はロールなしで扱います
func NewNavState(user *model.User) NavState {
	var role model.Role
	if user != nil {
		role = user.Role
	}
	return NavState{Role: role, View: ViewHome}
}

// EnterView は画面遷移を検証して遷移後の状態を返します
// 管理画面に入る権限がない場合は home に戻し Unauthorized を返します
func EnterView(s NavState, view View) (NavState, error) {
	switch view {
	case ViewHome, ViewDashboard, ViewBooking, ViewProfile:
		return NavState{Role: s.Role, View: view}, nil
	case ViewAdmin:
		if !Can(s.Role, ActionViewAdmin) {
			return NavState{Role: s.Role, View: ViewHome}, reject(ReasonUnauthorized, "role %q may not open the admin area", s.Role)
		}
		tab, _ := DefaultTab(s.Role)
		return NavState{Role: s.Role, View: ViewAdmin, Tab: tab}, nil
	default:
		return s, reject(ReasonMalformedInput, "unknown view %q", view)
	}
}

// SwitchTab は管理画面内のタブ切り替えを検証します
// 開けないタブへの切り替えは状態を変えずに Unauthorized を返します
func SwitchTab(s NavState, tab Tab) (NavState, error) {
	if !slices.Contains(adminTabs, tab) {
		return s, reject(ReasonMalformedInput, "unknown tab %q", tab)
	}
	if s.View != ViewAdmin {
		return s, reject(ReasonUnauthorized, "tab %q is only reachable from the admin view", tab)
	}
	if !CanAccessTab(s.Role, tab) {
		return s, reject(ReasonUnauthorized, "role %q may not open tab %q", s.Role, tab)
	}
	s.Tab = tab
	return s, nil
}
