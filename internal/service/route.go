package service

import "strings"

// AppMode is which UI a URL fragment opens
type AppMode string

const (
	ModeManager AppMode = "MANAGER"
	ModeCitizen AppMode = "CITIZEN"
)

// Route is the result of resolving a URL fragment
type Route struct {
	Mode           AppMode `json:"mode"`
	MunicipalityID string  `json:"municipalityId,omitempty"`
}

// ResolveRoute maps "#/<municipalityId>" for a known municipality to citizen
// mode; anything else opens the manager UI
func (s *DirectoryService) ResolveRoute(fragment string) Route {
	id, ok := strings.CutPrefix(strings.TrimSpace(fragment), "#/")
	if !ok {
		return Route{Mode: ModeManager}
	}
	id = strings.Trim(id, "/")
	if _, err := s.Get(id); err != nil {
		return Route{Mode: ModeManager}
	}
	return Route{Mode: ModeCitizen, MunicipalityID: id}
}
