package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/you/eduauthsvc/internal/mocks"
)

func TestPolicyService_AddPolicy(t *testing.T) {
	t.Run("persists after adding", func(t *testing.T) {
		enforcer := mocks.NewMockCasbinEnforcer()

		var added []interface{}
		enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
			added = params
			return true, nil
		}
		saved := false
		enforcer.SavePolicyFunc = func() error {
			saved = true
			return nil
		}

		svc := NewPolicyServiceWithEnforcer(enforcer)

		err := svc.AddPolicy("role_admin", "/admin/*", "GET")

		assert.NoError(t, err)
		assert.Equal(t, []interface{}{"role_admin", "/admin/*", "GET"}, added)
		assert.True(t, saved)
	})

	t.Run("propagates enforcer errors", func(t *testing.T) {
		enforcer := mocks.NewMockCasbinEnforcer()
		enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
			return false, errors.New("adapter down")
		}

		svc := NewPolicyServiceWithEnforcer(enforcer)

		assert.Error(t, svc.AddPolicy("role_admin", "/admin/*", "GET"))
	})
}

func TestPolicyService_CheckPermission(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return rvals[0] == "role_admin", nil
	}

	svc := NewPolicyServiceWithEnforcer(enforcer)

	allowed, err := svc.CheckPermission("role_admin", "/admin/policies", "GET")
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.CheckPermission("role_student", "/admin/policies", "GET")
	assert.NoError(t, err)
	assert.False(t, allowed)
}
