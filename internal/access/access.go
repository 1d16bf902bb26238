// Package access implements the role gate and canteen scoping applied to every call.
//
// Admins satisfy any role check. Staff are confined to the canteen they are bound
// to and are rejected outright while unbound. Customers only see their own records.
package access

import (
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID    uint
	Role      models.Role
	CanteenID *uint
}

func FromUser(u *models.User) *Actor {
	a := &Actor{UserID: u.ID, Role: u.Role}
	if u.CanteenID != nil {
		id := *u.CanteenID
		a.CanteenID = &id
	}
	return a
}

func (a *Actor) IsAdmin() bool { return a != nil && a.Role == models.RoleAdmin }

func (a *Actor) IsStaff() bool { return a != nil && a.Role == models.RoleStaff }

func (a *Actor) IsCustomer() bool { return a != nil && a.Role == models.RoleCustomer }

// ErrNoCanteen is returned for staff accounts without a canteen binding.
var ErrNoCanteen = apperr.Validation("staff account is not assigned to a canteen")

// Authorize allows the actor if its role is listed or it is an admin.
func Authorize(actor *Actor, roles ...models.Role) error {
	if actor == nil {
		return apperr.ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return nil
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("role %s may not perform this action", actor.Role)
}

// StaffCanteen returns the canteen a staff actor is bound to.
func StaffCanteen(actor *Actor) (uint, error) {
	if actor.CanteenID == nil {
		return 0, ErrNoCanteen
	}
	return *actor.CanteenID, nil
}

// RequireStaff admits staff bound to a canteen and admins.
func RequireStaff(actor *Actor) error {
	if err := Authorize(actor, models.RoleStaff); err != nil {
		return err
	}
	if actor.IsStaff() {
		_, err := StaffCanteen(actor)
		return err
	}
	return nil
}

// ScopeCanteen resolves the canteen a write applies to. Staff always get their own
// canteen and may not name another one; admins must name one.
func ScopeCanteen(actor *Actor, requested *uint) (uint, error) {
	if err := Authorize(actor, models.RoleStaff); err != nil {
		return 0, err
	}
	if actor.IsAdmin() {
		if requested == nil || *requested == 0 {
			return 0, apperr.Validation("canteen_id is required")
		}
		return *requested, nil
	}
	own, err := StaffCanteen(actor)
	if err != nil {
		return 0, err
	}
	if requested != nil && *requested != 0 && *requested != own {
		return 0, apperr.Forbidden("canteen %d belongs to another team", *requested)
	}
	return own, nil
}

// ScopeCanteenFilter is the read-side variant: an admin without a requested canteen
// gets nil, meaning every canteen.
func ScopeCanteenFilter(actor *Actor, requested *uint) (*uint, error) {
	if actor.IsAdmin() && (requested == nil || *requested == 0) {
		if err := Authorize(actor, models.RoleStaff); err != nil {
			return nil, err
		}
		return nil, nil
	}
	id, err := ScopeCanteen(actor, requested)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CheckCanteen fails unless the actor may act on records of canteenID.
func CheckCanteen(actor *Actor, canteenID uint) error {
	if err := Authorize(actor, models.RoleStaff); err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}
	own, err := StaffCanteen(actor)
	if err != nil {
		return err
	}
	if own != canteenID {
		return apperr.Forbidden("canteen %d belongs to another team", canteenID)
	}
	return nil
}
