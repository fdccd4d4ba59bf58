package auth

import (
	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// DefaultPolicies are seeded into an empty policy table
var DefaultPolicies = [][]string{
	{"role_admin", "/admin/*", "GET|POST|DELETE"},
	{"role_viewer", "/admin/subscribers", "GET"},
	{"role_viewer", "/admin/profiles/:id", "GET"},
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService loads the model and the policies stored in the database
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	E, err := casbin.NewEnforcer(modelPath, adp)
	if err != nil {
		return nil, err
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E}, nil
}

// SeedDefaults adds DefaultPolicies when no policy exists yet
func (s *CasbinService) SeedDefaults() error {
	existing, err := s.E.GetPolicy()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = s.E.AddPolicies(DefaultPolicies)
	return err
}
