package domain

// ModuleName identifies a toggleable portal section
type ModuleName string

const (
	ModuleHome      ModuleName = "home"
	ModuleProjects  ModuleName = "projects"
	ModuleInvoices  ModuleName = "invoices"
	ModuleContracts ModuleName = "contracts"
	ModuleForms     ModuleName = "forms"
	ModuleFiles     ModuleName = "files"
	ModuleMessages  ModuleName = "messages"
	ModuleTasks     ModuleName = "tasks"
	ModuleTimeline  ModuleName = "timeline"
	ModuleBookings  ModuleName = "bookings"
)

// KnownModules lists every gateable portal section in display order
var KnownModules = []ModuleName{
	ModuleHome,
	ModuleProjects,
	ModuleInvoices,
	ModuleContracts,
	ModuleForms,
	ModuleFiles,
	ModuleMessages,
	ModuleTasks,
	ModuleTimeline,
	ModuleBookings,
}

// Enabled reports whether a module is switched on for a portal. The
// default is on: only an explicit false disables a module, so modules
// added to the product light up in existing portals without any
// migration. The home section can never be disabled.
func (m ModuleStates) Enabled(name ModuleName) bool {
	if name == ModuleHome {
		return true
	}
	if m == nil {
		return true
	}
	enabled, ok := m[name]
	if !ok {
		return true
	}
	return enabled
}

// EnabledModules returns the gate state of every known module
func (m ModuleStates) EnabledModules() map[ModuleName]bool {
	out := make(map[ModuleName]bool, len(KnownModules))
	for _, name := range KnownModules {
		out[name] = m.Enabled(name)
	}
	return out
}
