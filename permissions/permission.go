package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var rawPermissions []byte

// Permission binds one route to the roles allowed to call it. Skip exempts
// the route from authentication entirely.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions returns the permission for a route pattern and method, or
// a zero Permission when the route is not listed.
func (p *PermissionData) FindPermissions(path, method string) Permission {
	idx := slices.IndexFunc(p.Endpoints, func(endpoint Permission) bool {
		return endpoint.Path == path && endpoint.Method == method
	})
	if idx < 0 {
		return Permission{}
	}

	return p.Endpoints[idx]
}

// Get decodes the embedded permission table. A nil result disables every
// guarded route rather than failing open.
func Get() *PermissionData {
	var permissions PermissionData

	if err := json.Unmarshal(rawPermissions, &permissions); err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return &permissions
}
