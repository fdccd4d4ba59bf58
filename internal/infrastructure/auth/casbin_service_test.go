package auth

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func modelPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "config", "casbin_model.conf")
}

func TestCasbinService_SeedDefaults(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	svc, err := NewCasbinService(db, modelPath(t))
	require.NoError(t, err)
	require.NoError(t, svc.SeedDefaults())
	require.NoError(t, svc.SeedDefaults())

	policies, err := svc.E.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, len(DefaultPolicies))

	tests := []struct {
		role, path, method string
		allowed            bool
	}{
		{"role_admin", "/admin/subscribers/123", "DELETE", true},
		{"role_admin", "/admin/ticks/digest", "POST", true},
		{"role_viewer", "/admin/subscribers", "GET", true},
		{"role_viewer", "/admin/profiles/923001234567", "GET", true},
		{"role_viewer", "/admin/subscribers/123", "POST", false},
		{"role_guest", "/admin/subscribers", "GET", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			ok, err := svc.E.Enforce(tt.role, tt.path, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
		})
	}
}
