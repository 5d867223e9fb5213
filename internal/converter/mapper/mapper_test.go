package mapper

import (
	"reflect"
	"strings"
	"testing"

	"gem-bridge/internal/converter/models"
)

// boxRoom is a 4x4x3 meter room with six faces.
func boxRoom(id, name string) models.Room {
	p := func(x, y, z float64) models.Point3 { return models.Point3{X: x, Y: y, Z: z} }
	return models.Room{
		Identifier:  id,
		DisplayName: name,
		Faces: []models.Face{
			{Identifier: "floor", Role: models.RoleFloor, Boundary: []models.Point3{p(0, 0, 0), p(4, 0, 0), p(4, 4, 0), p(0, 4, 0)}},
			{Identifier: "wall-s", Role: models.RoleWall, Boundary: []models.Point3{p(0, 0, 0), p(4, 0, 0), p(4, 0, 3), p(0, 0, 3)}},
			{Identifier: "wall-e", Role: models.RoleWall, Boundary: []models.Point3{p(4, 0, 0), p(4, 4, 0), p(4, 4, 3), p(4, 0, 3)}},
			{Identifier: "wall-n", Role: models.RoleWall, Boundary: []models.Point3{p(4, 4, 0), p(0, 4, 0), p(0, 4, 3), p(4, 4, 3)}},
			{Identifier: "wall-w", Role: models.RoleWall, Boundary: []models.Point3{p(0, 4, 0), p(0, 0, 0), p(0, 0, 3), p(0, 4, 3)}},
			{Identifier: "roof", Role: models.RoleRoof, Boundary: []models.Point3{p(0, 0, 3), p(4, 0, 3), p(4, 4, 3), p(0, 4, 3)}},
		},
	}
}

func TestRegistrySuffixesCollisions(t *testing.T) {
	r := NewRegistry()
	first := r.Assign("room-a", "Room 1")
	second := r.Assign("room-b", "Room_1")

	if first != "Room_1" {
		t.Errorf("first name = %q, want Room_1", first)
	}
	if second != "Room_1_1" {
		t.Errorf("second name = %q, want Room_1_1", second)
	}
	// repeated lookups are stable
	if again := r.Assign("room-a", "Room 1"); again != first {
		t.Errorf("repeated Assign = %q, want %q", again, first)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Room 1":          "Room_1",
		"first\nsecond":   "first_second",
		"a  b\t c":        "a_b_c",
		"__trimmed__":     "trimmed",
		"ok-name_already": "ok-name_already",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Sanitize(strings.Repeat("x", 200)); len(got) != 100 {
		t.Errorf("long name truncated to %d runes, want 100", len(got))
	}
}

func TestMapRoomWindowAndShade(t *testing.T) {
	room := boxRoom("room-1", "Room 1")
	// window on the south wall
	room.Faces[1].Apertures = []models.Aperture{{
		Identifier: "win-1",
		Boundary: []models.Point3{
			{X: 1, Y: 0, Z: 1}, {X: 3, Y: 0, Z: 1}, {X: 3, Y: 0, Z: 2}, {X: 1, Y: 0, Z: 2},
		},
	}}
	model := &models.Model{
		Identifier: "model-1",
		Units:      models.UnitsMeters,
		Rooms:      []models.Room{room},
		Shades: []models.Shade{{
			Identifier: "shade-1",
			Kind:       models.ShadeContext,
			Boundary: []models.Point3{
				{X: -2, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 3}, {X: -2, Y: 0, Z: 3},
			},
		}},
	}

	result, err := New().Map(model)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(result.Entities) != 2 {
		t.Fatalf("expected 2 entities (space + shade), got %d", len(result.Entities))
	}

	space := result.Entities[0]
	if !space.Type.IsSpace() {
		t.Errorf("first entity type = %+v, want space", space.Type)
	}
	if len(space.Vertices) != 8 {
		t.Errorf("box room pooled %d vertices, want 8", len(space.Vertices))
	}
	if len(space.Faces) != 6 {
		t.Errorf("box room has %d faces, want 6", len(space.Faces))
	}

	var openings int
	for _, f := range space.Faces {
		for _, o := range f.Openings {
			openings++
			if o.Kind != models.OpeningAperture {
				t.Errorf("opening kind = %d, want aperture", o.Kind)
			}
			if len(o.Vertices) != 4 {
				t.Errorf("opening has %d vertices, want 4", len(o.Vertices))
			}
			for _, p := range o.Vertices {
				if p.X < -1e-9 || p.Y < -1e-9 {
					t.Errorf("opening coordinate %+v is negative", p)
				}
			}
		}
	}
	if openings != 1 {
		t.Errorf("expected exactly 1 opening, got %d", openings)
	}

	shade := result.Entities[1]
	if shade.Type != models.TypeContextBuilding {
		t.Errorf("shade type = %+v, want context building", shade.Type)
	}
	if len(shade.Faces) != 2 {
		t.Fatalf("shade should be double-sided, got %d faces", len(shade.Faces))
	}
	fwd, back := shade.Faces[0].Indices, shade.Faces[1].Indices
	for i := range fwd {
		if fwd[i] != back[len(back)-1-i] {
			t.Fatalf("second shade face %v is not the reverse of %v", back, fwd)
		}
	}
}

func TestMapDegenerateFaceDropped(t *testing.T) {
	model := &models.Model{
		Identifier: "m",
		Units:      models.UnitsMeters,
		Rooms: []models.Room{{
			Identifier:  "room-1",
			DisplayName: "Room",
			Faces: []models.Face{
				{
					Identifier: "bad",
					Role:       models.RoleWall,
					// two distinct vertices plus a repeat
					Boundary: []models.Point3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}},
				},
				{
					Identifier: "good",
					Role:       models.RoleFloor,
					Boundary:   []models.Point3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
				},
			},
		}},
	}

	result, err := New().Map(model)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(result.Entities) != 1 || len(result.Entities[0].Faces) != 1 {
		t.Fatal("expected the degenerate face to be dropped and the room kept")
	}
	if len(result.Diagnostics) == 0 {
		t.Fatal("expected a diagnostic for the dropped face")
	}
	if !strings.Contains(result.Diagnostics[0].Message, "degenerate") {
		t.Errorf("diagnostic = %q, want mention of degenerate boundary", result.Diagnostics[0].Message)
	}
}

func TestMapUnknownRoleSkipped(t *testing.T) {
	model := &models.Model{
		Identifier: "m",
		Units:      models.UnitsMeters,
		Rooms: []models.Room{{
			Identifier: "room-1",
			Faces: []models.Face{{
				Identifier: "mystery",
				Role:       models.RoleUnknown,
				Boundary:   []models.Point3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}},
			}},
		}},
	}

	result, err := New().Map(model)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(result.Entities) != 0 {
		t.Errorf("expected no entities, got %d", len(result.Entities))
	}
	found := false
	for _, d := range result.Diagnostics {
		if strings.Contains(d.Message, "unsupported role") {
			found = true
		}
	}
	if !found {
		t.Error("expected an unsupported-role diagnostic")
	}
}

func TestMapScalesUnits(t *testing.T) {
	model := &models.Model{
		Identifier: "m",
		Units:      models.UnitsMillimeters,
		Shades: []models.Shade{{
			Identifier: "s",
			Boundary: []models.Point3{
				{X: 0, Y: 0, Z: 0}, {X: 1000, Y: 0, Z: 0}, {X: 1000, Y: 1000, Z: 0}, {X: 0, Y: 1000, Z: 0},
			},
		}},
	}
	result, err := New().Map(model)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(result.Entities))
	}
	for _, v := range result.Entities[0].Vertices {
		if v.X > 1.0+1e-9 || v.Y > 1.0+1e-9 {
			t.Fatalf("vertex %+v not scaled to meters", v)
		}
	}
}

func TestMapRejectsUnknownUnits(t *testing.T) {
	_, err := New().Map(&models.Model{Identifier: "m", Units: "Furlongs"})
	if err == nil {
		t.Fatal("expected an error for unsupported units")
	}
}

func TestMapDeterministic(t *testing.T) {
	model := &models.Model{
		Identifier: "m",
		Units:      models.UnitsMeters,
		Rooms:      []models.Room{boxRoom("room-1", "Room 1"), boxRoom("room-2", "Room_1")},
	}
	a, errA := New().Map(model)
	b, errB := New().Map(model)
	if errA != nil || errB != nil {
		t.Fatalf("Map: %v / %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("mapping is not deterministic for identical input")
	}
	if a.Entities[0].Name == a.Entities[1].Name {
		t.Error("identity registry assigned duplicate names")
	}
}
