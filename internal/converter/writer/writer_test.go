package writer

import (
	"strings"
	"testing"

	"gem-bridge/internal/converter/models"
)

func TestRenderHeaderOnly(t *testing.T) {
	text, err := New().Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := models.HeaderComment + "\n" + models.HeaderMarker + "\n"
	if text != want {
		t.Errorf("empty render = %q, want %q", text, want)
	}
}

func TestRenderSpaceRecord(t *testing.T) {
	entity := models.TranslatedEntity{
		Name: "Room_1",
		Type: models.TypeSpace,
		Vertices: []models.Point3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Faces: []models.EntityFace{{Indices: []int{1, 2, 3, 4}}},
	}

	text, err := New().Render([]models.TranslatedEntity{entity})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := models.HeaderComment + "\n" +
		"ANT\n" +
		"LAYER\n1\n" +
		"COLOUR\n0\n" +
		"CATEGORY\n1\n" +
		"TYPE\n1\n" +
		"SUBTYPE\n2001\n" +
		"COLOURRGB\n16711680\n" +
		"IES Room_1\n" +
		"4 1\n" +
		"   0.000000    0.000000    0.000000\n" +
		"   1.000000    0.000000    0.000000\n" +
		"   1.000000    1.000000    0.000000\n" +
		"   0.000000    1.000000    0.000000\n" +
		"4 1 2 3 4 \n" +
		"0\n"
	if text != want {
		t.Errorf("record mismatch:\ngot:\n%s\nwant:\n%s", text, want)
	}
}

func TestRenderOpenings(t *testing.T) {
	entity := models.TranslatedEntity{
		Name: "Room_1",
		Type: models.TypeSpace,
		Vertices: []models.Point3{
			{X: 0, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 3}, {X: 0, Y: 0, Z: 3},
		},
		Faces: []models.EntityFace{{
			Indices: []int{1, 2, 3, 4},
			Openings: []models.Opening{{
				Kind: models.OpeningAperture,
				Vertices: []models.Point2{
					{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 2}, {X: 1, Y: 2},
				},
			}},
		}},
	}

	text, err := New().Render([]models.TranslatedEntity{entity})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantBlock := "4 1 2 3 4 \n" +
		"1\n" +
		"4 0\n" +
		"   1.000000    1.000000\n" +
		"   3.000000    1.000000\n" +
		"   3.000000    2.000000\n" +
		"   1.000000    2.000000\n"
	if !strings.Contains(text, wantBlock) {
		t.Errorf("output missing opening block:\n%s", text)
	}
}

func TestRenderIdempotent(t *testing.T) {
	entities := []models.TranslatedEntity{{
		Name: "Shade",
		Type: models.TypeShade,
		Vertices: []models.Point3{
			{X: 0, Y: 0, Z: 2.5}, {X: 1, Y: 0, Z: 2.5}, {X: 1, Y: 1, Z: 2.5},
		},
		Faces: []models.EntityFace{
			{Indices: []int{1, 2, 3}},
			{Indices: []int{3, 2, 1}},
		},
	}}

	w := New()
	a, errA := w.Render(entities)
	b, errB := w.Render(entities)
	if errA != nil || errB != nil {
		t.Fatalf("Render: %v / %v", errA, errB)
	}
	if a != b {
		t.Error("repeated renders are not byte-identical")
	}
}

func TestRenderRejectsBadIndices(t *testing.T) {
	entity := models.TranslatedEntity{
		Name:     "Broken",
		Type:     models.TypeShade,
		Vertices: []models.Point3{{}, {}, {}},
		Faces:    []models.EntityFace{{Indices: []int{1, 2, 7}}},
	}
	if _, err := New().Render([]models.TranslatedEntity{entity}); err == nil {
		t.Fatal("expected an error for an out-of-range face index")
	}
}

func TestRenderRejectsEmptyName(t *testing.T) {
	entity := models.TranslatedEntity{
		Type:     models.TypeShade,
		Vertices: []models.Point3{{}, {}, {}},
		Faces:    []models.EntityFace{{Indices: []int{1, 2, 3}}},
	}
	if _, err := New().Render([]models.TranslatedEntity{entity}); err == nil {
		t.Fatal("expected an error for an empty entity name")
	}
}
