package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment names accepted by the guard.
const (
	EnvDev  = "dev"
	EnvTest = "test"
)

// EnvironmentError is returned when a command runs outside of the
// environments it is allowed in.
type EnvironmentError struct {
	Env     string
	Allowed []string
}

func (e *EnvironmentError) Error() string {
	if len(e.Allowed) == 1 && e.Allowed[0] == EnvDev {
		return fmt.Sprintf("this command can only be run on a development environment (current: %q)", e.Env)
	}
	return fmt.Sprintf("this command can only be run on a %s environment (current: %q)", strings.Join(e.Allowed, " or "), e.Env)
}

// ResolveEnvironment returns the active environment: the flag value if
// set, then $DTOOLS_ENV, then $APP_ENV, then "dev".
func ResolveEnvironment(flag string) string {
	if flag != "" {
		return flag
	}
	for _, name := range []string{"DTOOLS_ENV", "APP_ENV"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return EnvDev
}

// Guard fails with *EnvironmentError unless env contains one of allowed,
// so "dev" accepts "dev" and "dev_local".
func Guard(env string, allowed ...string) error {
	for _, a := range allowed {
		if strings.Contains(env, a) {
			return nil
		}
	}
	return &EnvironmentError{Env: env, Allowed: allowed}
}
