package prompt

import (
	"fmt"
	"os"
	"strings"
)

// PersonaLoader reads the persona template from a text file. The file is read
// on every call so the template can be edited without a restart; a missing or
// empty file is an error the caller handles per request.
type PersonaLoader struct {
	path string
}

// NewPersonaLoader creates a loader for the persona template at path.
func NewPersonaLoader(path string) *PersonaLoader {
	return &PersonaLoader{path: path}
}

// Load returns the persona template text.
func (l *PersonaLoader) Load() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("failed to read persona template: %w", err)
	}
	persona := strings.TrimSpace(string(data))
	if persona == "" {
		return "", fmt.Errorf("persona template %s is empty", l.path)
	}
	return persona, nil
}
