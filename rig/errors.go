package rig

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	ErrCycle         = errors.New("rig: parent link would create a cycle")
	ErrDuplicateBone = errors.New("rig: duplicate bone name")
	ErrBoneNotFound  = errors.New("rig: bone not found")
	ErrEmptyName     = errors.New("rig: empty name")
	ErrInvalidTime   = errors.New("rig: invalid keyframe time")
	ErrKeyCollision  = errors.New("rig: keyframe already exists at time")
)

// CycleError reports the parent chain that an edit would have closed.
type CycleError struct {
	Bone   string
	Parent string
	Path   []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("rig: parenting %q to %q creates a cycle", e.Bone, e.Parent)
	}
	return fmt.Sprintf("rig: parenting %q to %q creates a cycle (%s)", e.Bone, e.Parent, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

type DiagnosticKind int

const (
	// DanglingReference: a bone, sprite or track names something that does not exist.
	DanglingReference DiagnosticKind = iota + 1
	// DegenerateGeometry: a sprite rect with zero or negative size.
	DegenerateGeometry
)

func (k DiagnosticKind) String() string {
	switch k {
	case DanglingReference:
		return "dangling-reference"
	case DegenerateGeometry:
		return "degenerate-geometry"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal problem found while resolving or placing a rig.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string
	Detail  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Subject, d.Detail)
}

// LogDiagnostics writes each diagnostic with the given subsystem prefix.
func LogDiagnostics(prefix string, diags []Diagnostic) {
	for _, d := range diags {
		log.Printf("%s: warning: %s", prefix, d)
	}
}
