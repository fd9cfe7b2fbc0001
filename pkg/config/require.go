package config

import (
	"fmt"
	"strings"
)

// MissingEnvError lists required variables that were empty.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required env %s", strings.Join(e.Names, ", "))
}

// Required collects the names of empty required variables.
type Required struct {
	missing []string
}

func (r *Required) NonEmpty(value, envName string) *Required {
	if strings.TrimSpace(value) == "" {
		r.missing = append(r.missing, envName)
	}
	return r
}

func (r *Required) NonEmptyBytes(value []byte, envName string) *Required {
	if len(value) == 0 {
		r.missing = append(r.missing, envName)
	}
	return r
}

// Err returns nil when every checked variable was set.
func (r *Required) Err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return &MissingEnvError{Names: r.missing}
}
