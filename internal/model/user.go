package model

// Role is the kind of user logged into the dashboard
type Role string

const (
	RolePrefeito   Role = "PREFEITO"
	RoleSecretario Role = "SECRETARIO"
	RoleServidor   Role = "SERVIDOR"
	RoleAdmin      Role = "ADMIN"
	RoleCidadao    Role = "CIDADAO"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RolePrefeito, RoleSecretario, RoleServidor, RoleAdmin, RoleCidadao:
		return true
	}
	return false
}

// Tab is a navigation entry of the manager sidebar
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabFeed      Tab = "feed"
	TabReports   Tab = "relatorios"
	TabAlerts    Tab = "alertas"
	TabDataEntry Tab = "envio"
)

// Tabs lists the sidebar entries in display order
var Tabs = []Tab{TabDashboard, TabFeed, TabReports, TabAlerts, TabDataEntry}

// CanAccess reports whether the role sees the given tab
func (r Role) CanAccess(tab Tab) bool {
	switch tab {
	case TabDashboard, TabReports, TabAlerts:
		return r == RolePrefeito || r == RoleAdmin
	case TabFeed:
		return r == RolePrefeito || r == RoleAdmin || r == RoleSecretario
	case TabDataEntry:
		return r == RoleSecretario || r == RoleServidor || r == RoleAdmin
	}
	return false
}

// VisibleTabs returns the tabs the role sees, in display order
func (r Role) VisibleTabs() []Tab {
	tabs := []Tab{}
	for _, t := range Tabs {
		if r.CanAccess(t) {
			tabs = append(tabs, t)
		}
	}
	return tabs
}

// User is a session-scoped dashboard user; it is never persisted
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	MunicipalityID string     `json:"municipalityId"`
	Department     Department `json:"department,omitempty"`
}
