package instance

import "os"

// GetID returns the process instance identifier used to tag logs. The explicit
// setting wins over the platform-provided dyno name.
func GetID() string {
	if id := os.Getenv("STOREFRONT_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}
