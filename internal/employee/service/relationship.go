package service

import (
	"context"

	"github.com/newwork/people-service/internal/employee/permission"
	"github.com/newwork/people-service/internal/employee/repository"
)

// RelationshipResolver derives the viewer's relationship to a target
// user from the manager edge. The resolution is a single hop: a
// skip-level manager is a coworker like anyone else.
type RelationshipResolver struct {
	users UserStore
}

// NewRelationshipResolver creates a new resolver
func NewRelationshipResolver(users UserStore) *RelationshipResolver {
	return &RelationshipResolver{users: users}
}

// Resolve returns the viewer's relationship to targetID. Fails with
// NotFound when the target does not exist.
func (r *RelationshipResolver) Resolve(ctx context.Context, viewerID, targetID string) (permission.Relationship, error) {
	if viewerID == targetID {
		return permission.Self, nil
	}

	target, err := r.users.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	return relationshipTo(viewerID, target), nil
}

// relationshipTo computes the relationship given an already-loaded
// target. Used where the target row is at hand (directory join,
// request-scoped cache) to avoid a second lookup.
func relationshipTo(viewerID string, target *repository.User) permission.Relationship {
	if viewerID == target.ID {
		return permission.Self
	}
	if target.ManagerID != nil && *target.ManagerID == viewerID {
		return permission.Manager
	}
	return permission.Coworker
}

// userCache collapses duplicate account lookups while building a single
// response. It lives for one request and is never shared.
type userCache struct {
	store UserStore
	byID  map[string]*repository.User
}

func newUserCache(store UserStore) *userCache {
	return &userCache{
		store: store,
		byID:  make(map[string]*repository.User),
	}
}

func (c *userCache) GetByID(ctx context.Context, id string) (*repository.User, error) {
	if user, ok := c.byID[id]; ok {
		return user, nil
	}

	user, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.byID[id] = user
	return user, nil
}

func (c *userCache) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	user, err := c.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	c.byID[user.ID] = user
	return user, nil
}
