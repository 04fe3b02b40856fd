package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss-edu/school-api/internal/models"
)

func TestModulesForRoleCoversEveryRole(t *testing.T) {
	universe := make(map[string]struct{}, len(AllModules))
	for _, m := range AllModules {
		universe[m] = struct{}{}
	}

	for _, role := range models.AllRoles {
		modules := ModulesForRole(role)
		require.NotEmpty(t, modules, "role %s must map to a non-empty module set", role)
		for _, m := range modules {
			_, ok := universe[m]
			assert.True(t, ok, "role %s references unknown module %s", role, m)
		}
	}
}

func TestModulesForRoleUnknownRoleIsEmpty(t *testing.T) {
	assert.Empty(t, ModulesForRole(models.UserRole("Janitor")))
	assert.Empty(t, ModulesForRole(""))
}

func TestModulesForRoleIsStable(t *testing.T) {
	first := ModulesForRole(models.RoleTeacher)
	first[0] = "tampered"
	assert.Equal(t, ModuleDashboard, ModulesForRole(models.RoleTeacher)[0])
}

func TestCanAccess(t *testing.T) {
	assert.True(t, CanAccess(models.RoleAdmin, ModuleSettings))
	assert.False(t, CanAccess(models.RolePrincipal, ModuleSettings))
	assert.True(t, CanAccess(models.RoleAccountant, ModuleFees))
	assert.False(t, CanAccess(models.RoleReception, ModuleGrades))
	assert.False(t, CanAccess(models.UserRole("Janitor"), ModuleDashboard))
}
