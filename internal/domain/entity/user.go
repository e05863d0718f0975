// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccountStatus is the lifecycle state of a user account. An account is
// either active or soft-deleted; there is no hard delete.
type AccountStatus string

const (
	// AccountStatusActive is the state of a normal, usable account.
	AccountStatusActive AccountStatus = "active"
	// AccountStatusDeleted marks an account that has been soft-deleted and
	// anonymized. The row is kept so order history stays referentially intact.
	AccountStatusDeleted AccountStatus = "deleted"
)

// AnonymizedName is the neutral placeholder written over personal name
// fields when an account is soft-deleted.
const AnonymizedName = "Anonyme"

// deletedEmailDomain is intentionally unresolvable so a released address can
// never collide with a real registration.
const deletedEmailDomain = "example.invalid"

// User is the core identity entity: a customer or administrator account.
type User struct {
	ID           uuid.UUID  // The unique identifier for the user.
	Email        string     // Login identifier; unique across all accounts, including deleted ones.
	PasswordHash string     // bcrypt hash of the user's password. Never serialized outward.
	FirstName    string     // The user's first name.
	LastName     string     // The user's last name.
	Whatsapp     *string    // Optional contact handle; nil when unset.
	Roles        Roles      // Stored role tags. The base "user" role is implicit, see EffectiveRoles.
	Status       AccountStatus
	DeletedAt    *time.Time // Set when the account is soft-deleted.
	Favorites    []uuid.UUID // Product IDs the user has marked as favorites.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EffectiveRoles returns the stored roles with the implicit base role added,
// deduplicated. Every account is at least a regular user.
func (u *User) EffectiveRoles() Roles {
	roles := make(Roles, 0, len(u.Roles)+1)
	for _, r := range u.Roles {
		if !roles.Contains(r) {
			roles = append(roles, r)
		}
	}
	if !roles.Contains(RoleUser) {
		roles = append(roles, RoleUser)
	}

	return roles
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Roles.Contains(RoleAdmin)
}

// IsDeleted reports whether the account is soft-deleted. Either signal counts
// so that rows written before the status column existed are still honored.
func (u *User) IsDeleted() bool {
	return u.Status == AccountStatusDeleted || u.DeletedAt != nil
}

// HasFavorite reports whether the given product is in the user's favorites.
func (u *User) HasFavorite(productID uuid.UUID) bool {
	for _, id := range u.Favorites {
		if id == productID {
			return true
		}
	}

	return false
}

// AddFavorite adds a product to the favorite set. Adding an existing favorite
// is a no-op, keeping the set free of duplicates.
func (u *User) AddFavorite(productID uuid.UUID) {
	if u.HasFavorite(productID) {
		return
	}
	u.Favorites = append(u.Favorites, productID)
}

// RemoveFavorite removes a product from the favorite set if present.
func (u *User) RemoveFavorite(productID uuid.UUID) {
	for i, id := range u.Favorites {
		if id == productID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)

			return
		}
	}
}

// ClearFavorites empties the favorite set.
func (u *User) ClearFavorites() {
	u.Favorites = nil
}

// SoftDelete deactivates and anonymizes the account in place. It is
// idempotent: calling it on an already-deleted account changes nothing and
// returns false. The email is rewritten to a synthetic value derived from the
// user ID and the deletion time, which releases the original address for
// reuse while keeping the uniqueness constraint satisfied.
func (u *User) SoftDelete(now time.Time) bool {
	if u.IsDeleted() {
		return false
	}

	deletedAt := now
	u.Status = AccountStatusDeleted
	u.DeletedAt = &deletedAt
	u.ClearFavorites()
	u.FirstName = AnonymizedName
	u.LastName = AnonymizedName
	u.Whatsapp = nil
	u.Email = DeletedEmail(u.ID, now)

	return true
}

// DeletedEmail builds the synthetic, collision-free address written over a
// soft-deleted account's email.
func DeletedEmail(id uuid.UUID, now time.Time) string {
	return fmt.Sprintf("deleted+%s+%s@%s", id, now.UTC().Format("20060102150405"), deletedEmailDomain)
}
