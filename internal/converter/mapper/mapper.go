package mapper

import (
	"fmt"
	"math"

	"gem-bridge/internal/converter/geometry"
	"gem-bridge/internal/converter/models"
)

// ============================================================
// Entity Mapper
// ============================================================

// Mapper walks a building model and produces the ordered translated entity
// list for one GEM file. Traversal order is fixed: rooms in given order,
// faces within a room in given order, openings within a face in given order,
// room shades, then orphaned shades. A Mapper maps one model and is not
// reused.
type Mapper struct {
	registry *Registry
	scale    float64
	entities []models.TranslatedEntity
	diags    []models.Diagnostic
}

func New() *Mapper {
	return &Mapper{registry: NewRegistry(), scale: 1}
}

// Registry exposes the identity registry populated by Map.
func (m *Mapper) Registry() *Registry {
	return m.registry
}

// Map translates the model graph into GEM entities. Geometric and mapping
// problems become diagnostics on the result; only unusable input (unknown
// unit system) is an error.
func (m *Mapper) Map(model *models.Model) (*models.TranslationResult, error) {
	scale, ok := models.UnitScale(model.Units)
	if !ok {
		return nil, fmt.Errorf("unsupported unit system %q", model.Units)
	}
	m.scale = scale

	for _, room := range model.Rooms {
		m.mapRoom(room)
	}
	for _, shade := range model.Shades {
		m.mapShade(shade)
	}

	return &models.TranslationResult{Entities: m.entities, Diagnostics: m.diags}, nil
}

// ============================================================
// Rooms
// ============================================================

func (m *Mapper) mapRoom(room models.Room) {
	name := m.registry.Assign(room.Identifier, room.DisplayName)

	pool := newVertexPool()
	var faces []models.EntityFace

	for _, face := range room.Faces {
		if face.Role == models.RoleUnknown {
			m.warn(name, fmt.Sprintf("face %s: unsupported role, skipped", face.Identifier))
			continue
		}

		res, err := geometry.NormalizeLoop(m.scaled(face.Boundary))
		if err != nil {
			m.warn(name, fmt.Sprintf("face %s: degenerate boundary, dropped", face.Identifier))
			continue
		}
		if res.Projected {
			m.warn(name, fmt.Sprintf(
				"face %s: non-planar by %.4f m, projected onto best-fit plane",
				face.Identifier, res.Residual))
		}

		indices := make([]int, len(res.Loop))
		for i, p := range res.Loop {
			indices[i] = pool.add(p)
		}

		faces = append(faces, models.EntityFace{
			Indices:  indices,
			Openings: m.mapOpenings(name, face, res.Loop),
		})
	}

	if len(faces) == 0 {
		m.warn(name, "room has no usable faces, skipped")
		return
	}

	m.entities = append(m.entities, models.TranslatedEntity{
		Name:     name,
		Type:     models.TypeSpace,
		Vertices: pool.vertices,
		Faces:    faces,
	})

	// shades attached to the room or to its openings follow the space record
	for _, shade := range room.Shades {
		m.mapShade(shade)
	}
	for _, face := range room.Faces {
		for _, ap := range face.Apertures {
			for _, shade := range ap.Shades {
				m.mapShade(shade)
			}
		}
		for _, dr := range face.Doors {
			for _, shade := range dr.Shades {
				m.mapShade(shade)
			}
		}
	}
}

func (m *Mapper) mapOpenings(entity string, face models.Face, parent []models.Point3) []models.Opening {
	origin, xAxis, yAxis := geometry.PlaneBasis(parent)

	var openings []models.Opening
	appendOpening := func(id string, kind models.OpeningKind, boundary []models.Point3) {
		res, err := geometry.NormalizeLoop(m.scaled(boundary))
		if err != nil {
			m.warn(entity, fmt.Sprintf("opening %s: degenerate boundary, dropped", id))
			return
		}
		pts := make([]models.Point2, len(res.Loop))
		for i, p := range res.Loop {
			pts[i] = geometry.ProjectToBasis(p, origin, xAxis, yAxis)
		}
		openings = append(openings, models.Opening{Kind: kind, Vertices: pts})
	}

	for _, ap := range face.Apertures {
		appendOpening(ap.Identifier, models.OpeningAperture, ap.Boundary)
	}
	for _, dr := range face.Doors {
		appendOpening(dr.Identifier, models.OpeningDoor, dr.Boundary)
	}
	for i, hole := range face.Holes {
		appendOpening(fmt.Sprintf("%s-hole-%d", face.Identifier, i), models.OpeningHole, hole)
	}
	return openings
}

// ============================================================
// Shades
// ============================================================

func (m *Mapper) mapShade(shade models.Shade) {
	name := m.registry.Assign(shade.Identifier, shade.DisplayName)

	res, err := geometry.NormalizeLoop(m.scaled(shade.Boundary))
	if err != nil {
		m.warn(name, "degenerate shade boundary, dropped")
		return
	}
	if res.Projected {
		m.warn(name, fmt.Sprintf(
			"non-planar by %.4f m, projected onto best-fit plane", res.Residual))
	}

	// shade surfaces are double-sided: a forward loop plus its reverse
	n := len(res.Loop)
	forward := make([]int, n)
	backward := make([]int, n)
	for i := range forward {
		forward[i] = i + 1
		backward[i] = n - i
	}

	m.entities = append(m.entities, models.TranslatedEntity{
		Name:     name,
		Type:     gemTypeForShade(shade),
		Vertices: res.Loop,
		Faces: []models.EntityFace{
			{Indices: forward},
			{Indices: backward},
		},
	})
}

func gemTypeForShade(shade models.Shade) models.GemType {
	switch shade.Kind {
	case models.ShadeTopography:
		return models.TypeTopography
	case models.ShadeTranslucent:
		return models.TypeTranslucentShade
	case models.ShadeContext:
		return models.TypeContextBuilding
	}
	if shade.IsDetached {
		return models.TypeContextBuilding
	}
	return models.TypeShade
}

// ============================================================
// Helpers
// ============================================================

func (m *Mapper) scaled(loop []models.Point3) []models.Point3 {
	if m.scale == 1 {
		return loop
	}
	out := make([]models.Point3, len(loop))
	for i, p := range loop {
		out[i] = models.Point3{X: p.X * m.scale, Y: p.Y * m.scale, Z: p.Z * m.scale}
	}
	return out
}

func (m *Mapper) warn(entity, msg string) {
	m.diags = append(m.diags, models.Diagnostic{
		Severity: models.SeverityWarning,
		Entity:   entity,
		Message:  msg,
	})
}

// ============================================================
// Vertex pool
// ============================================================

// vertexPool deduplicates coordinates shared between faces of one entity.
// Keys are coordinates rounded at the merge tolerance, so the pool is
// deterministic for identical input.
type vertexPool struct {
	index    map[[3]int64]int
	vertices []models.Point3
}

func newVertexPool() *vertexPool {
	return &vertexPool{index: make(map[[3]int64]int)}
}

// add returns the 1-based pool index for the point.
func (p *vertexPool) add(pt models.Point3) int {
	key := [3]int64{quantize(pt.X), quantize(pt.Y), quantize(pt.Z)}
	if i, ok := p.index[key]; ok {
		return i
	}
	p.vertices = append(p.vertices, pt)
	i := len(p.vertices)
	p.index[key] = i
	return i
}

func quantize(v float64) int64 {
	return int64(math.Round(v / geometry.DistTolerance))
}
