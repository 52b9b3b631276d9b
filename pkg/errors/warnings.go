package errors

import "fmt"

// WarningKind identifies a class of non-fatal anomaly.
type WarningKind string

// Warning kinds. These mirror the degradation policy: structural shape
// errors abort an import, everything else produces a Warning and continues.
const (
	// WarnUnknownType marks a resource whose type was not recognized.
	// The resource is kept with a generic kind.
	WarnUnknownType WarningKind = "UNKNOWN_RESOURCE_TYPE"

	// WarnDanglingEdge marks an edge whose endpoint id is absent from the
	// node set. The edge is dropped.
	WarnDanglingEdge WarningKind = "DANGLING_EDGE"

	// WarnLayoutFailed marks a layout run that failed; previous node
	// positions were kept.
	WarnLayoutFailed WarningKind = "LAYOUT_FAILED"

	// WarnForceFallback marks a force layout that exceeded the node
	// ceiling and fell back to the grid strategy.
	WarnForceFallback WarningKind = "FORCE_FALLBACK"
)

// Warning is a non-fatal anomaly produced during import or layout. Warnings
// are values, not errors: the pipeline records them on the result and
// continues, because real inventory data is expected to be incomplete or to
// contain resource types the system has not modeled yet.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	ResourceID string      `json:"resource_id,omitempty"`
}

// NewWarning creates a Warning with a formatted message. resourceID may be
// empty when the anomaly is not tied to one resource.
func NewWarning(kind WarningKind, resourceID, format string, args ...any) Warning {
	return Warning{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		ResourceID: resourceID,
	}
}

// String implements fmt.Stringer for log output.
func (w Warning) String() string {
	if w.ResourceID != "" {
		return fmt.Sprintf("%s (%s): %s", w.Kind, w.ResourceID, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
