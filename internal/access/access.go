// Package access holds the static role → module permission table and the
// capability query used by both the navigation list and the route guard.
package access

import "github.com/mss-edu/school-api/internal/models"

// Module names the functional areas a role may navigate to.
const (
	ModuleDashboard  = "Dashboard"
	ModuleStudents   = "Students"
	ModuleTeachers   = "Teachers"
	ModuleAttendance = "Attendance"
	ModuleGrades     = "Grades"
	ModuleFees       = "Fees"
	ModuleDocuments  = "Documents"
	ModuleReports    = "Reports"
	ModuleSettings   = "Settings"
)

// AllModules is the ordered module universe.
var AllModules = []string{
	ModuleDashboard,
	ModuleStudents,
	ModuleTeachers,
	ModuleAttendance,
	ModuleGrades,
	ModuleFees,
	ModuleDocuments,
	ModuleReports,
	ModuleSettings,
}

// permissions maps every role to its ordered set of reachable modules.
var permissions = map[models.UserRole][]string{
	models.RoleAdmin:      {ModuleDashboard, ModuleStudents, ModuleTeachers, ModuleAttendance, ModuleGrades, ModuleFees, ModuleDocuments, ModuleReports, ModuleSettings},
	models.RolePrincipal:  {ModuleDashboard, ModuleStudents, ModuleTeachers, ModuleAttendance, ModuleGrades, ModuleFees, ModuleDocuments, ModuleReports},
	models.RoleTeacher:    {ModuleDashboard, ModuleStudents, ModuleAttendance, ModuleGrades, ModuleDocuments},
	models.RoleStudent:    {ModuleDashboard, ModuleGrades, ModuleDocuments, ModuleFees},
	models.RoleAccountant: {ModuleDashboard, ModuleFees, ModuleReports, ModuleStudents},
	models.RoleReception:  {ModuleDashboard, ModuleStudents},
	models.RoleParent:     {ModuleDashboard, ModuleGrades, ModuleFees, ModuleDocuments},
}

// ModulesForRole returns the ordered modules the role may reach. The
// mapping is total: an unrecognised role yields the most restrictive
// answer, an empty set, never a panic.
func ModulesForRole(role models.UserRole) []string {
	modules, ok := permissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(modules))
	copy(out, modules)
	return out
}

// CanAccess is the single capability query consumed by the navigation
// endpoint and the per-module route guard.
func CanAccess(role models.UserRole, module string) bool {
	for _, m := range permissions[role] {
		if m == module {
			return true
		}
	}
	return false
}
