package service

import (
	"fmt"
	"math"

	"gem-bridge/internal/converter/geometry"
	"gem-bridge/internal/converter/mapper"
	"gem-bridge/internal/converter/models"

	"github.com/google/uuid"
)

// ============================================================
// Model assembly
// ============================================================

// roof faces tilt less than 60 degrees from vertical-up; floors more than
// 120. Matches common building-model conventions.
const roofTiltCos = 0.5

// AssembleModel rebuilds a model-shaped structure from parsed GEM entities.
// Every loop passes back through the geometry normalizer, so imported
// entities satisfy the same invariants as exported ones. Imported objects
// get fresh identifiers; GEM does not carry them.
func AssembleModel(name string, entities []models.TranslatedEntity) (*models.Model, []models.Diagnostic) {
	var diags []models.Diagnostic
	warn := func(entity, msg string) {
		diags = append(diags, models.Diagnostic{
			Severity: models.SeverityWarning,
			Entity:   entity,
			Message:  msg,
		})
	}

	model := &models.Model{
		Identifier:  mapper.Sanitize(name),
		DisplayName: name,
		Units:       models.UnitsMeters,
	}
	if model.Identifier == "" {
		model.Identifier = "model"
	}

	for _, e := range entities {
		if e.Type.IsSpace() {
			room, ok := assembleRoom(e, warn)
			if ok {
				model.Rooms = append(model.Rooms, room)
			}
			continue
		}
		model.Shades = append(model.Shades, assembleShades(e, warn)...)
	}
	return model, diags
}

// ============================================================
// Rooms
// ============================================================

func assembleRoom(e models.TranslatedEntity, warn func(string, string)) (models.Room, bool) {
	room := models.Room{
		Identifier:  uuid.NewString(),
		DisplayName: e.Name,
	}

	type pending struct {
		res  geometry.Result
		face models.EntityFace
	}
	var usable []pending
	minZ := math.Inf(1)

	for i, face := range e.Faces {
		loop, err := resolveIndices(e, face.Indices)
		if err != nil {
			warn(e.Name, fmt.Sprintf("face %d: %v, dropped", i+1, err))
			continue
		}
		res, err := geometry.NormalizeLoop(loop)
		if err != nil {
			warn(e.Name, fmt.Sprintf("face %d: degenerate boundary, dropped", i+1))
			continue
		}
		usable = append(usable, pending{res: res, face: face})
		for _, p := range res.Loop {
			if p.Z < minZ {
				minZ = p.Z
			}
		}
	}

	for _, p := range usable {
		face := models.Face{
			Identifier: uuid.NewString(),
			Role:       roleForLoop(p.res, minZ),
			Boundary:   p.res.Loop,
		}

		origin, xAxis, yAxis := geometry.PlaneBasis(p.res.Loop)
		for _, opening := range p.face.Openings {
			loop := make([]models.Point3, len(opening.Vertices))
			for i, v := range opening.Vertices {
				loop[i] = geometry.PointFromBasis(v, origin, xAxis, yAxis)
			}
			switch opening.Kind {
			case models.OpeningAperture:
				face.Apertures = append(face.Apertures, models.Aperture{
					Identifier: uuid.NewString(),
					Boundary:   loop,
				})
			case models.OpeningDoor:
				face.Doors = append(face.Doors, models.Door{
					Identifier: uuid.NewString(),
					Boundary:   loop,
				})
			case models.OpeningHole:
				face.Holes = append(face.Holes, loop)
				// a hole in a room boundary is covered by an air boundary face
				room.Faces = append(room.Faces, models.Face{
					Identifier: uuid.NewString(),
					Role:       models.RoleAirBoundary,
					Boundary:   loop,
				})
			}
		}
		room.Faces = append(room.Faces, face)
	}

	if len(room.Faces) == 0 {
		warn(e.Name, "room has no usable faces, skipped")
		return models.Room{}, false
	}
	return room, true
}

// roleForLoop infers the face role from its orientation and height within
// the room. Winding is normalized, so the normal sign alone cannot separate
// floors from roofs; the lowest horizontal faces become floors.
func roleForLoop(res geometry.Result, roomMinZ float64) models.FaceRole {
	if math.Abs(res.Normal.Z) < roofTiltCos {
		return models.RoleWall
	}
	centroidZ := 0.0
	for _, p := range res.Loop {
		centroidZ += p.Z
	}
	centroidZ /= float64(len(res.Loop))
	if centroidZ-roomMinZ < geometry.PlanarTolerance*10 {
		return models.RoleFloor
	}
	return models.RoleRoof
}

// ============================================================
// Shades
// ============================================================

func assembleShades(e models.TranslatedEntity, warn func(string, string)) []models.Shade {
	kind, detached := shadeKindForType(e.Type)
	group := mapper.Sanitize(e.Name)

	var shades []models.Shade
	var seen [][]int
	for i, face := range e.Faces {
		if isReversedDuplicate(face.Indices, seen) {
			// shade records are written double-sided; keep one side
			continue
		}
		seen = append(seen, face.Indices)

		loop, err := resolveIndices(e, face.Indices)
		if err != nil {
			warn(e.Name, fmt.Sprintf("shade face %d: %v, dropped", i+1, err))
			continue
		}
		res, err := geometry.NormalizeLoop(loop)
		if err != nil {
			warn(e.Name, fmt.Sprintf("shade face %d: degenerate boundary, dropped", i+1))
			continue
		}
		shades = append(shades, models.Shade{
			Identifier:  uuid.NewString(),
			DisplayName: e.Name,
			Kind:        kind,
			IsDetached:  detached,
			GroupID:     group,
			Boundary:    res.Loop,
		})
	}
	return shades
}

func shadeKindForType(t models.GemType) (models.ShadeKind, bool) {
	switch t {
	case models.TypeContextBuilding:
		return models.ShadeContext, true
	case models.TypeTopography:
		return models.ShadeTopography, true
	case models.TypeTranslucentShade:
		return models.ShadeTranslucent, false
	}
	return models.ShadeLocal, false
}

func isReversedDuplicate(indices []int, seen [][]int) bool {
	for _, prev := range seen {
		if len(prev) != len(indices) {
			continue
		}
		match := true
		for i := range indices {
			if indices[i] != prev[len(prev)-1-i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ============================================================
// Helpers
// ============================================================

func resolveIndices(e models.TranslatedEntity, indices []int) ([]models.Point3, error) {
	loop := make([]models.Point3, len(indices))
	for i, idx := range indices {
		if idx < 1 || idx > len(e.Vertices) {
			return nil, fmt.Errorf("vertex index %d out of range", idx)
		}
		loop[i] = e.Vertices[idx-1]
	}
	return loop, nil
}
