package project

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
)

// ErrNewerProject is returned when the project was generated by a newer major version of the tool.
var ErrNewerProject = errors.New("project was generated by a newer version")

// CheckVersion refuses to regenerate a project created by a newer major version.
// An empty project version (new project) always passes.
func CheckVersion(projectVersion, toolVersion string) error {
	if projectVersion == "" {
		return nil
	}

	project, err := version.NewVersion(projectVersion)
	if err != nil {
		return fmt.Errorf("invalid project version %q: %w", projectVersion, err)
	}
	tool, err := version.NewVersion(toolVersion)
	if err != nil {
		// Development builds ("dev") are not versioned.
		return nil
	}

	if project.Segments()[0] > tool.Segments()[0] {
		return fmt.Errorf("%w: project %s, tool %s", ErrNewerProject, project, tool)
	}
	return nil
}
