package parser

import (
	"fmt"
	"strconv"
	"strings"

	"gem-bridge/internal/converter/models"
)

// ============================================================
// GEM Parser
// ============================================================

// ParseError is a located structural error in a GEM text unit. Parsing is
// fail-fast: downstream geometry code assumes well-formed entities, so a
// malformed record aborts the whole import.
type ParseError struct {
	Line  int
	Field string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gem: line %d: %s: %s", e.Line, e.Field, e.Msg)
}

// Parse tokenizes a GEM text unit into translated entities. Blank lines,
// COM comment lines and the ANT header marker are skipped.
func Parse(text string) ([]models.TranslatedEntity, error) {
	sc := newScanner(text)

	var entities []models.TranslatedEntity
	for {
		line, ln, ok := sc.next()
		if !ok {
			break
		}
		if line != "LAYER" {
			return nil, &ParseError{Line: ln, Field: "record", Msg: fmt.Sprintf("expected LAYER, got %q", line)}
		}
		entity, err := parseRecord(sc)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func parseRecord(sc *scanner) (models.TranslatedEntity, error) {
	var e models.TranslatedEntity

	layer, err := sc.intLine("LAYER")
	if err != nil {
		return e, err
	}
	colour, err := sc.labeledInt("COLOUR")
	if err != nil {
		return e, err
	}
	category, err := sc.labeledInt("CATEGORY")
	if err != nil {
		return e, err
	}
	typ, err := sc.labeledInt("TYPE")
	if err != nil {
		return e, err
	}
	subtype, err := sc.labeledInt("SUBTYPE")
	if err != nil {
		return e, err
	}
	colourRGB, err := sc.labeledInt("COLOURRGB")
	if err != nil {
		return e, err
	}
	_ = colour
	_ = colourRGB
	_ = layer

	nameLine, ln, ok := sc.next()
	if !ok {
		return e, sc.eof("name")
	}
	keyword, name, found := strings.Cut(nameLine, " ")
	if !found || strings.TrimSpace(name) == "" {
		return e, &ParseError{Line: ln, Field: "name", Msg: "expected keyword and name"}
	}
	e.Name = strings.TrimSpace(name)

	gemType, err := models.GemTypeFromHeader(category, typ, subtype, keyword)
	if err != nil {
		return e, &ParseError{Line: ln, Field: "type", Msg: err.Error()}
	}
	e.Type = gemType

	vertexCount, faceCount, err := sc.countsLine("counts")
	if err != nil {
		return e, err
	}
	if vertexCount < 0 || faceCount < 0 {
		return e, &ParseError{Line: sc.lastLine, Field: "counts", Msg: fmt.Sprintf("negative count in %d %d", vertexCount, faceCount)}
	}

	// counts are declared, not trusted: vertices grow as lines actually
	// arrive, so an absurd count fails at the first missing line instead of
	// allocating up front
	for i := 0; i < vertexCount; i++ {
		v, err := sc.pointLine3("vertex")
		if err != nil {
			return e, err
		}
		e.Vertices = append(e.Vertices, v)
	}

	for i := 0; i < faceCount; i++ {
		face, err := parseFace(sc, vertexCount)
		if err != nil {
			return e, err
		}
		e.Faces = append(e.Faces, face)
	}
	return e, nil
}

func parseFace(sc *scanner, vertexCount int) (models.EntityFace, error) {
	var face models.EntityFace

	line, ln, ok := sc.next()
	if !ok {
		return face, sc.eof("face")
	}
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return face, &ParseError{Line: ln, Field: "face", Msg: "empty face line"}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return face, &ParseError{Line: ln, Field: "face", Msg: fmt.Sprintf("bad index count %q", fields[0])}
	}
	if len(fields)-1 != n {
		return face, &ParseError{Line: ln, Field: "face", Msg: fmt.Sprintf("declared %d indices, found %d", n, len(fields)-1)}
	}
	face.Indices = make([]int, 0, n)
	for _, f := range fields[1:] {
		idx, err := strconv.Atoi(f)
		if err != nil {
			return face, &ParseError{Line: ln, Field: "face", Msg: fmt.Sprintf("bad vertex index %q", f)}
		}
		if idx < 1 || idx > vertexCount {
			return face, &ParseError{Line: ln, Field: "face", Msg: fmt.Sprintf("vertex index %d out of range 1..%d", idx, vertexCount)}
		}
		face.Indices = append(face.Indices, idx)
	}

	openingCount, err := sc.intLine("openings")
	if err != nil {
		return face, err
	}
	if openingCount < 0 {
		return face, &ParseError{Line: sc.lastLine, Field: "openings", Msg: fmt.Sprintf("negative opening count %d", openingCount)}
	}
	for i := 0; i < openingCount; i++ {
		opening, err := parseOpening(sc)
		if err != nil {
			return face, err
		}
		face.Openings = append(face.Openings, opening)
	}
	return face, nil
}

func parseOpening(sc *scanner) (models.Opening, error) {
	var opening models.Opening

	count, kind, err := sc.countsLine("opening")
	if err != nil {
		return opening, err
	}
	if count < 0 {
		return opening, &ParseError{Line: sc.lastLine, Field: "opening", Msg: fmt.Sprintf("negative vertex count %d", count)}
	}
	if kind < 0 || kind > 2 {
		return opening, &ParseError{Line: sc.lastLine, Field: "opening", Msg: fmt.Sprintf("unsupported opening type %d", kind)}
	}
	opening.Kind = models.OpeningKind(kind)

	for i := 0; i < count; i++ {
		p, err := sc.pointLine2("opening vertex")
		if err != nil {
			return opening, err
		}
		opening.Vertices = append(opening.Vertices, p)
	}
	return opening, nil
}

// ============================================================
// Line scanner
// ============================================================

type scanner struct {
	lines    []string
	pos      int
	lastLine int // 1-based number of the last line handed out
}

func newScanner(text string) *scanner {
	return &scanner{lines: strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")}
}

// next returns the next meaningful line. Blank lines, COM comments and the
// ANT marker are skipped.
func (s *scanner) next() (string, int, bool) {
	for s.pos < len(s.lines) {
		line := strings.TrimSpace(s.lines[s.pos])
		s.pos++
		if line == "" || line == models.HeaderMarker ||
			line == models.CommentPrefix || strings.HasPrefix(line, models.CommentPrefix+" ") {
			continue
		}
		s.lastLine = s.pos
		return line, s.pos, true
	}
	return "", 0, false
}

func (s *scanner) eof(field string) error {
	return &ParseError{Line: s.lastLine, Field: field, Msg: "unexpected end of file"}
}

// labeledInt consumes a literal label line followed by an integer line.
func (s *scanner) labeledInt(label string) (int, error) {
	line, ln, ok := s.next()
	if !ok {
		return 0, s.eof(label)
	}
	if line != label {
		return 0, &ParseError{Line: ln, Field: label, Msg: fmt.Sprintf("expected %s, got %q", label, line)}
	}
	return s.intLine(label)
}

func (s *scanner) intLine(field string) (int, error) {
	line, ln, ok := s.next()
	if !ok {
		return 0, s.eof(field)
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		return 0, &ParseError{Line: ln, Field: field, Msg: fmt.Sprintf("expected integer, got %q", line)}
	}
	return v, nil
}

func (s *scanner) countsLine(field string) (int, int, error) {
	line, ln, ok := s.next()
	if !ok {
		return 0, 0, s.eof(field)
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, &ParseError{Line: ln, Field: field, Msg: fmt.Sprintf("expected two integers, got %q", line)}
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, &ParseError{Line: ln, Field: field, Msg: fmt.Sprintf("bad integer %q", fields[0])}
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, &ParseError{Line: ln, Field: field, Msg: fmt.Sprintf("bad integer %q", fields[1])}
	}
	return a, b, nil
}

func (s *scanner) pointLine3(field string) (models.Point3, error) {
	coords, err := s.floats(field, 3)
	if err != nil {
		return models.Point3{}, err
	}
	return models.Point3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func (s *scanner) pointLine2(field string) (models.Point2, error) {
	coords, err := s.floats(field, 2)
	if err != nil {
		return models.Point2{}, err
	}
	return models.Point2{X: coords[0], Y: coords[1]}, nil
}

func (s *scanner) floats(field string, want int) ([]float64, error) {
	line, ln, ok := s.next()
	if !ok {
		return nil, s.eof(field)
	}
	fields := strings.Fields(line)
	if len(fields) != want {
		return nil, &ParseError{Line: ln, Field: field, Msg: fmt.Sprintf("expected %d coordinates, got %d", want, len(fields))}
	}
	out := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &ParseError{Line: ln, Field: field, Msg: fmt.Sprintf("bad coordinate %q", f)}
		}
		out[i] = v
	}
	return out, nil
}
