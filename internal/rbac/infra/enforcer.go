package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer loads the domain RBAC model. Policies are seeded at runtime
// per company, so no adapter is attached here.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
