// Package script attaches interpreted Go behaviour to scene nodes.
package script

import (
	"regexp"
)

// updateHookPattern matches a top-level OnUpdate function declaration.
var updateHookPattern = regexp.MustCompile(`(?m)^func\s+OnUpdate\s*\(`)

// Script is a named Go source file attached to a node.
type Script interface {
	// Name returns the script name used in logs and errors.
	Name() string

	// Source returns the Go source text.
	Source() string

	// HasUpdateHook reports whether the source declares a top-level OnUpdate function.
	HasUpdateHook() bool
}

// Scripted is a node that may carry a Script.
type Scripted interface {
	ID() uint64
	Script() Script
}

// Environment runs scripts on behalf of a scene.
type Environment interface {
	// PostUpdate invokes the update hook of obj's script.
	// Nodes without a script or without an update hook are ignored.
	//
	// Parameters:
	//   - obj: the node whose script should run
	//   - dt: delta time in seconds
	//
	// Returns:
	//   - error: a compile or runtime failure of the script
	PostUpdate(obj Scripted, dt float32) error
}

type script struct {
	name      string
	source    string
	hasUpdate bool
}

var _ Script = &script{}

// NewScript creates a Script from Go source.
//
// Parameters:
//   - name: the script name
//   - source: Go source with a package clause
//
// Returns:
//   - Script: the new script
func NewScript(name, source string) Script {
	return &script{
		name:      name,
		source:    source,
		hasUpdate: updateHookPattern.MatchString(source),
	}
}

func (s *script) Name() string {
	return s.name
}

func (s *script) Source() string {
	return s.source
}

func (s *script) HasUpdateHook() bool {
	return s.hasUpdate
}
