package mocks

import (
	"slices"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// MockCasbinEnforcer keeps rules in memory and matches them the way the
// admin model does for the shapes used in tests: exact paths, a trailing
// "/*" and "|" separated methods.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
	SavePolicyFunc   func() error

	// Saves counts SavePolicy calls that reached the default behavior
	Saves int
	rules [][]string
}

var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer starts with the admin and viewer rules
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		rules: [][]string{
			{"role_admin", "/admin/*", "GET|POST|DELETE"},
			{"role_viewer", "/admin/subscribers", "GET"},
			{"role_viewer", "/admin/profiles/:id", "GET"},
		},
	}
}

func toRule(params []interface{}) ([]string, bool) {
	if len(params) != 3 {
		return nil, false
	}
	rule := make([]string, 0, 3)
	for _, p := range params {
		s, ok := p.(string)
		if !ok {
			return nil, false
		}
		rule = append(rule, s)
	}
	return rule, true
}

func (m *MockCasbinEnforcer) indexOf(rule []string) int {
	return slices.IndexFunc(m.rules, func(r []string) bool { return slices.Equal(r, rule) })
}

func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	rule, ok := toRule(params)
	if !ok || m.indexOf(rule) >= 0 {
		return false, nil
	}
	m.rules = append(m.rules, rule)
	return true, nil
}

func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	rule, ok := toRule(params)
	if !ok {
		return false, nil
	}
	i := m.indexOf(rule)
	if i < 0 {
		return false, nil
	}
	m.rules = slices.Delete(m.rules, i, i+1)
	return true, nil
}

func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	req, ok := toRule(rvals)
	if !ok {
		return false, nil
	}
	for _, r := range m.rules {
		if r[0] == req[0] && pathMatches(r[1], req[1]) && slices.Contains(strings.Split(r[2], "|"), req[2]) {
			return true, nil
		}
	}
	return false, nil
}

func pathMatches(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return pattern == path
}

func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	out := make([][]string, len(m.rules))
	for i, r := range m.rules {
		out[i] = slices.Clone(r)
	}
	return out, nil
}

func (m *MockCasbinEnforcer) SavePolicy() error {
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	m.Saves++
	return nil
}
