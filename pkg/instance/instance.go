package instance

import "github.com/angelmondragon/catalog-api/pkg/env"

// GetID names the running process in logs: an explicit instance id, the
// platform dyno name, or "local".
func GetID() string {
	if id := env.Get("CATALOG_INSTANCE_ID", ""); id != "" {
		return id
	}
	return env.Get("DYNO", "local")
}
