package warehouse

import "fmt"

// ConfigError reports a missing endpoint field. It is fatal to the
// operation that raised it and never retried; the user has to supply
// the field and rerun.
type ConfigError struct {
	Field  string // human-readable field name
	EnvVar string // environment variable that supplies it
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s not configured: set %s or add it to ~/.databricks/config.json",
		e.Field, e.EnvVar)
}
