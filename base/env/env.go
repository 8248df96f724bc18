package env

import (
	"os"
)

// PodName is the kubernetes pod name, e.g. sale-api-6868d88fbd-bz8zv. Outside
// kubernetes it falls back to the host name.
func PodName() string {
	if name := os.Getenv("PODNAME"); name != "" {
		return name
	}
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
