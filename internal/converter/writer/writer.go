package writer

import (
	"fmt"
	"strconv"
	"strings"

	"gem-bridge/internal/converter/models"
)

// ============================================================
// GEM Writer
// ============================================================

// Writer serializes translated entities into the GEM line grammar. Output is
// a pure function of the entity list, so repeated renders are byte-identical.
type Writer struct{}

func New() *Writer {
	return &Writer{}
}

// Render produces one complete GEM text unit: the header block followed by
// one record per entity. Errors indicate malformed internal data and mean a
// bug upstream, not bad user input.
func (w *Writer) Render(entities []models.TranslatedEntity) (string, error) {
	var b strings.Builder
	b.WriteString(models.HeaderComment)
	b.WriteByte('\n')
	b.WriteString(models.HeaderMarker)
	b.WriteByte('\n')

	for _, e := range entities {
		if err := w.writeEntity(&b, e); err != nil {
			return "", fmt.Errorf("entity %q: %w", e.Name, err)
		}
	}
	return b.String(), nil
}

func (w *Writer) writeEntity(b *strings.Builder, e models.TranslatedEntity) error {
	if e.Name == "" {
		return fmt.Errorf("empty entity name")
	}

	t := e.Type
	fmt.Fprintf(b, "LAYER\n%d\n", t.Layer)
	fmt.Fprintf(b, "COLOUR\n%d\n", t.Colour)
	fmt.Fprintf(b, "CATEGORY\n%d\n", t.Category)
	fmt.Fprintf(b, "TYPE\n%d\n", t.Type)
	fmt.Fprintf(b, "SUBTYPE\n%d\n", t.Subtype)
	fmt.Fprintf(b, "COLOURRGB\n%d\n", t.ColourRGB)
	fmt.Fprintf(b, "%s %s\n", t.Keyword, e.Name)

	fmt.Fprintf(b, "%d %d\n", len(e.Vertices), len(e.Faces))
	for _, v := range e.Vertices {
		fmt.Fprintf(b, "   %.6f    %.6f    %.6f\n", v.X, v.Y, v.Z)
	}

	for _, face := range e.Faces {
		if err := w.writeFace(b, face, len(e.Vertices)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFace(b *strings.Builder, face models.EntityFace, vertexCount int) error {
	if len(face.Indices) < 3 {
		return fmt.Errorf("face with %d indices", len(face.Indices))
	}

	parts := make([]string, 0, len(face.Indices)+1)
	parts = append(parts, strconv.Itoa(len(face.Indices)))
	for _, i := range face.Indices {
		if i < 1 || i > vertexCount {
			return fmt.Errorf("face index %d out of range 1..%d", i, vertexCount)
		}
		parts = append(parts, strconv.Itoa(i))
	}
	// the trailing space before the newline is part of the released format
	b.WriteString(strings.Join(parts, " "))
	b.WriteString(" \n")

	fmt.Fprintf(b, "%d\n", len(face.Openings))
	for _, opening := range face.Openings {
		if len(opening.Vertices) < 3 {
			return fmt.Errorf("opening with %d vertices", len(opening.Vertices))
		}
		fmt.Fprintf(b, "%d %d\n", len(opening.Vertices), int(opening.Kind))
		for _, p := range opening.Vertices {
			fmt.Fprintf(b, "   %.6f    %.6f\n", p.X, p.Y)
		}
	}
	return nil
}
