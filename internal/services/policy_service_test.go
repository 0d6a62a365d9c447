package services

import (
	"errors"
	"testing"

	"github.com/you/authsvc/internal/mocks"
)

func TestPolicyService_AddPolicy(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_developer", "/admin/*", "GET"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	policies := svc.GetPolicies()
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}
	want := []string{"role_developer", "/admin/*", "GET"}
	for i, v := range want {
		if policies[0][i] != v {
			t.Errorf("policy field %d: expected %q, got %q", i, v, policies[0][i])
		}
	}
}

func TestPolicyService_CheckPermission(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return rvals[0] == "role_developer", nil
	}

	svc := NewPolicyServiceWithEnforcer(enforcer)

	allowed, err := svc.CheckPermission("role_developer", "/admin/policies", "GET")
	if err != nil || !allowed {
		t.Errorf("expected developer allowed, got allowed=%v err=%v", allowed, err)
	}

	allowed, err = svc.CheckPermission("role_customer", "/admin/policies", "GET")
	if err != nil || allowed {
		t.Errorf("expected customer denied, got allowed=%v err=%v", allowed, err)
	}
}

func TestPolicyService_CheckPermissionError(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return false, errors.New("adapter down")
	}

	svc := NewPolicyServiceWithEnforcer(enforcer)
	if _, err := svc.CheckPermission("role_developer", "/admin/policies", "GET"); err == nil {
		t.Error("expected enforcement error to surface")
	}
}
