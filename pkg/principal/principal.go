// Package principal identifies the authenticated user performing a request.
//
// This package is used for:
// - Access control decisions (who is asking, and for whom)
// - Audit logging (who performed an action)
// - Scoping queries (my absences, feedback I can see)
package principal

import (
	"context"
	"fmt"
)

// Roles assignable to a principal.
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
)

// Principal represents the authenticated user performing a request.
type Principal struct {
	// UserID is the unique identifier of the account
	UserID string `json:"user_id"`

	// Email is the account's email address
	Email string `json:"email"`

	// EmployeeID is the profile this account belongs to
	EmployeeID string `json:"employee_id"`

	// Role is the user's role (EMPLOYEE or MANAGER)
	Role string `json:"role"`

	// ManagerID is the user id of this user's direct manager, if any
	ManagerID *string `json:"manager_id,omitempty"`
}

// String returns a string representation of the principal for logging
func (p *Principal) String() string {
	if p == nil {
		return "system"
	}
	return fmt.Sprintf("%s (%s)", p.EmployeeID, p.Email)
}

// IsManager returns true if the principal holds the MANAGER role.
func (p *Principal) IsManager() bool {
	return p != nil && p.Role == RoleManager
}

// contextKey is the type for context keys to avoid collisions
type contextKey string

const principalContextKey contextKey = "principal"

// FromContext retrieves the Principal from the context.
// Returns nil if no principal is present (e.g., system operations).
func FromContext(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey, p)
}

// MustFromContext retrieves the Principal from the context.
// Panics if no principal is present. Use only behind auth middleware.
func MustFromContext(ctx context.Context) *Principal {
	p := FromContext(ctx)
	if p == nil {
		panic("principal not found in context")
	}
	return p
}
