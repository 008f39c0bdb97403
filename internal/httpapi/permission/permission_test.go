package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewhub/internal/httpapi/models"
)

func actorWithRole(role string) Actor {
	return Actor{ID: "actor-id", Username: "actor", Role: role, Authenticated: true}
}

func TestAdminOrReadOnly(t *testing.T) {
	t.Run("AnonymousRead", func(t *testing.T) {
		assert.True(t, AdminOrReadOnly(Anonymous, ActionRead, nil))
	})
	t.Run("AnonymousWrite", func(t *testing.T) {
		assert.False(t, AdminOrReadOnly(Anonymous, ActionWrite, nil))
	})
	t.Run("UserWrite", func(t *testing.T) {
		assert.False(t, AdminOrReadOnly(actorWithRole(models.RoleUser), ActionWrite, nil))
	})
	t.Run("ModeratorWrite", func(t *testing.T) {
		assert.False(t, AdminOrReadOnly(actorWithRole(models.RoleModerator), ActionWrite, nil))
	})
	t.Run("AdminWrite", func(t *testing.T) {
		assert.True(t, AdminOrReadOnly(actorWithRole(models.RoleAdmin), ActionWrite, nil))
	})
}

func TestRoleAdmin(t *testing.T) {
	assert.False(t, RoleAdmin(Anonymous, ActionRead, nil))
	assert.False(t, RoleAdmin(actorWithRole(models.RoleUser), ActionRead, nil))
	assert.False(t, RoleAdmin(actorWithRole(models.RoleModerator), ActionWrite, nil))
	assert.True(t, RoleAdmin(actorWithRole(models.RoleAdmin), ActionWrite, nil))
}

func TestRoleModerator(t *testing.T) {
	assert.False(t, RoleModerator(Anonymous, ActionRead, nil))
	assert.False(t, RoleModerator(actorWithRole(models.RoleUser), ActionWrite, nil))
	assert.True(t, RoleModerator(actorWithRole(models.RoleModerator), ActionWrite, nil))
	assert.True(t, RoleModerator(actorWithRole(models.RoleAdmin), ActionWrite, nil))
}

func TestAuthorOrReadOnly(t *testing.T) {
	owned := &Target{AuthorID: "actor-id"}
	foreign := &Target{AuthorID: "someone-else"}

	t.Run("AnonymousRead", func(t *testing.T) {
		assert.True(t, AuthorOrReadOnly(Anonymous, ActionRead, foreign))
	})
	t.Run("AnonymousWrite", func(t *testing.T) {
		assert.False(t, AuthorOrReadOnly(Anonymous, ActionWrite, foreign))
	})
	t.Run("AuthorWrite", func(t *testing.T) {
		assert.True(t, AuthorOrReadOnly(actorWithRole(models.RoleUser), ActionWrite, owned))
	})
	t.Run("NonAuthorWrite", func(t *testing.T) {
		assert.False(t, AuthorOrReadOnly(actorWithRole(models.RoleUser), ActionWrite, foreign))
	})
	t.Run("CreateNeedsOnlyAuthentication", func(t *testing.T) {
		assert.True(t, AuthorOrReadOnly(actorWithRole(models.RoleUser), ActionWrite, nil))
	})
}

func TestReadOnly(t *testing.T) {
	assert.True(t, ReadOnly(Anonymous, ActionRead, nil))
	assert.False(t, ReadOnly(actorWithRole(models.RoleAdmin), ActionWrite, nil))
}

func TestReviewAccessComposition(t *testing.T) {
	foreign := &Target{AuthorID: "someone-else"}
	owned := &Target{AuthorID: "actor-id"}

	t.Run("ModeratorMayEditForeignReview", func(t *testing.T) {
		assert.True(t, ReviewAccess(actorWithRole(models.RoleModerator), ActionWrite, foreign))
	})
	t.Run("AdminMayEditForeignReview", func(t *testing.T) {
		assert.True(t, ReviewAccess(actorWithRole(models.RoleAdmin), ActionWrite, foreign))
	})
	t.Run("UserMayEditOwnReview", func(t *testing.T) {
		assert.True(t, ReviewAccess(actorWithRole(models.RoleUser), ActionWrite, owned))
	})
	t.Run("UserMayNotEditForeignReview", func(t *testing.T) {
		assert.False(t, ReviewAccess(actorWithRole(models.RoleUser), ActionWrite, foreign))
	})
	t.Run("AnyoneMayRead", func(t *testing.T) {
		assert.True(t, ReviewAccess(Anonymous, ActionRead, foreign))
	})
}

func TestEffectiveRoleCollapse(t *testing.T) {
	t.Run("SuperuserIsAdmin", func(t *testing.T) {
		u := models.User{Role: models.RoleUser, Superuser: true}
		assert.Equal(t, models.RoleAdmin, u.EffectiveRole())
	})
	t.Run("StaffIsModerator", func(t *testing.T) {
		u := models.User{Role: models.RoleUser, Staff: true}
		assert.Equal(t, models.RoleModerator, u.EffectiveRole())
	})
	t.Run("PlainUser", func(t *testing.T) {
		u := models.User{Role: models.RoleUser}
		assert.Equal(t, models.RoleUser, u.EffectiveRole())
	})
	t.Run("AdminRoleWins", func(t *testing.T) {
		u := models.User{Role: models.RoleAdmin, Staff: true}
		assert.Equal(t, models.RoleAdmin, u.EffectiveRole())
	})
}
