package models

import "strings"

// ============================================================
// Geometry primitives
// ============================================================

type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ============================================================
// Units
// ============================================================

const (
	UnitsMeters      = "Meters"
	UnitsMillimeters = "Millimeters"
	UnitsCentimeters = "Centimeters"
	UnitsFeet        = "Feet"
	UnitsInches      = "Inches"
)

// UnitScale returns the factor that converts the given unit system to
// meters. GEM files are always metric.
func UnitScale(units string) (float64, bool) {
	switch units {
	case "", UnitsMeters:
		return 1.0, true
	case UnitsMillimeters:
		return 0.001, true
	case UnitsCentimeters:
		return 0.01, true
	case UnitsFeet:
		return 0.3048, true
	case UnitsInches:
		return 0.0254, true
	}
	return 0, false
}

// ============================================================
// Face roles
// ============================================================

// FaceRole is a closed set of supported face roles. Unknown roles are kept
// explicit so the mapper can skip them loudly instead of miscategorizing.
type FaceRole int

const (
	RoleUnknown FaceRole = iota
	RoleWall
	RoleRoof
	RoleFloor
	RoleAirBoundary
)

var roleNames = map[FaceRole]string{
	RoleUnknown:     "unknown",
	RoleWall:        "wall",
	RoleRoof:        "roof",
	RoleFloor:       "floor",
	RoleAirBoundary: "air_boundary",
}

func (r FaceRole) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r FaceRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *FaceRole) UnmarshalText(text []byte) error {
	*r = ParseFaceRole(string(text))
	return nil
}

// ParseFaceRole maps a role string to a FaceRole. Unrecognized values map to
// RoleUnknown; the mapper reports those as diagnostics.
func ParseFaceRole(s string) FaceRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wall":
		return RoleWall
	case "roof", "roofceiling", "roof_ceiling", "ceiling":
		return RoleRoof
	case "floor":
		return RoleFloor
	case "air_boundary", "airboundary":
		return RoleAirBoundary
	}
	return RoleUnknown
}

// ============================================================
// Shade kinds
// ============================================================

type ShadeKind int

const (
	ShadeLocal ShadeKind = iota
	ShadeContext
	ShadeTopography
	ShadeTranslucent
)

var shadeKindNames = map[ShadeKind]string{
	ShadeLocal:       "local",
	ShadeContext:     "context",
	ShadeTopography:  "topography",
	ShadeTranslucent: "translucent",
}

func (k ShadeKind) String() string {
	if name, ok := shadeKindNames[k]; ok {
		return name
	}
	return "local"
}

func (k ShadeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ShadeKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "context":
		*k = ShadeContext
	case "topography":
		*k = ShadeTopography
	case "translucent":
		*k = ShadeTranslucent
	default:
		*k = ShadeLocal
	}
	return nil
}

// ============================================================
// Building model graph
// ============================================================

type Model struct {
	Identifier  string  `json:"identifier"`
	DisplayName string  `json:"display_name,omitempty"`
	Units       string  `json:"units,omitempty"`
	Rooms       []Room  `json:"rooms,omitempty"`
	Shades      []Shade `json:"shades,omitempty"`
}

type Room struct {
	Identifier  string  `json:"identifier"`
	DisplayName string  `json:"display_name,omitempty"`
	Faces       []Face  `json:"faces"`
	Shades      []Shade `json:"shades,omitempty"`
}

type Face struct {
	Identifier string     `json:"identifier"`
	Role       FaceRole   `json:"role"`
	Boundary   []Point3   `json:"boundary"`
	Holes      [][]Point3 `json:"holes,omitempty"`
	Apertures  []Aperture `json:"apertures,omitempty"`
	Doors      []Door     `json:"doors,omitempty"`
}

type Aperture struct {
	Identifier string   `json:"identifier"`
	Boundary   []Point3 `json:"boundary"`
	Shades     []Shade  `json:"shades,omitempty"`
}

type Door struct {
	Identifier string   `json:"identifier"`
	Boundary   []Point3 `json:"boundary"`
	Shades     []Shade  `json:"shades,omitempty"`
}

type Shade struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name,omitempty"`
	Kind        ShadeKind `json:"kind"`
	IsDetached  bool      `json:"is_detached,omitempty"`
	GroupID     string    `json:"group_id,omitempty"`
	Boundary    []Point3  `json:"boundary"`
}

// ============================================================
// Translated entities
// ============================================================

// OpeningKind values match the numeric opening tags in GEM records.
type OpeningKind int

const (
	OpeningAperture OpeningKind = 0
	OpeningDoor     OpeningKind = 1
	OpeningHole     OpeningKind = 2
)

// Opening is a sub-face written as 2D coordinates in its parent face plane.
type Opening struct {
	Kind     OpeningKind `json:"kind"`
	Vertices []Point2    `json:"vertices"`
}

// EntityFace references the shared vertex pool of its entity with 1-based
// indices, the way GEM records do.
type EntityFace struct {
	Indices  []int     `json:"indices"`
	Openings []Opening `json:"openings,omitempty"`
}

// TranslatedEntity is the symmetric shape produced by the entity mapper on
// export and by the GEM parser on import.
type TranslatedEntity struct {
	Name     string       `json:"name"`
	Type     GemType      `json:"type"`
	Vertices []Point3     `json:"vertices"`
	Faces    []EntityFace `json:"faces"`
}

// ============================================================
// Diagnostics
// ============================================================

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic records a recoverable per-entity problem. Diagnostics ride
// along with a successful result; one bad face never aborts a translation.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Entity   string   `json:"entity,omitempty"`
	Message  string   `json:"message"`
}

// TranslationResult is the output of one export mapping run.
type TranslationResult struct {
	Entities    []TranslatedEntity `json:"entities"`
	Diagnostics []Diagnostic       `json:"diagnostics,omitempty"`
}
