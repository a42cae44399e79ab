package services

import (
	"fmt"

	"github.com/casbin/casbin/v2"

	"github.com/you/eduauthsvc/domain"
)

// PolicyServiceImpl implements domain.PolicyService. Policies are triples
// of (role subject, path pattern, method pattern); mutations are written
// through to the adapter immediately so every instance sees them.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a policy service over the real casbin enforcer,
// which satisfies domain.CasbinEnforcer as-is
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// NewPolicyServiceWithEnforcer creates a policy service over any enforcer
// implementation (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy implements domain.PolicyService
func (s *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	if _, err := s.enforcer.AddPolicy(role, resource, action); err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return s.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService
func (s *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	if _, err := s.enforcer.RemovePolicy(role, resource, action); err != nil {
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return s.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService
func (s *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(role, resource, action)
}

// GetPolicies implements domain.PolicyService. A read failure yields an
// empty list rather than an error; the admin surface treats the policy
// table as advisory.
func (s *PolicyServiceImpl) GetPolicies() [][]string {
	policies, err := s.enforcer.GetPolicy()
	if err != nil {
		return nil
	}
	return policies
}
