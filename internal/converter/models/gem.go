package models

import "fmt"

// ============================================================
// GEM record constants
// ============================================================

// There is no public documentation for GEM files. The tables below follow
// the combinations observed in files exported by IES VE:
//
//	object          CATEGORY  TYPE  SUBTYPE  LAYER  COLOUR  COL-RGB   KEYWORD
//	rooms/spaces       1       1     2001      1      0     16711680    IES
//	uncond. space      1       1     2002      1      0     16711680    IES
//	trans. shade       1       1     2102     64      0         0       IES
//	context bldg       1       2        0     62      0     16711935    IES
//	topography         1       3        0     63      0       38400     IES
//	local shade        1       4        0     64     62       65280     IES
const (
	// HeaderComment and HeaderMarker make up the file header block.
	HeaderComment = "COM GEM data file exported by gem-bridge"
	HeaderMarker  = "ANT"

	// CommentPrefix marks comment lines the reader must skip.
	CommentPrefix = "COM"
)

// GemType carries the fixed attribute fields of one GEM record category.
type GemType struct {
	Layer     int    `json:"layer"`
	Colour    int    `json:"colour"`
	Category  int    `json:"category"`
	Type      int    `json:"type"`
	Subtype   int    `json:"subtype"`
	ColourRGB int    `json:"colour_rgb"`
	Keyword   string `json:"keyword"`
}

var (
	TypeSpace              = GemType{Layer: 1, Colour: 0, Category: 1, Type: 1, Subtype: 2001, ColourRGB: 16711680, Keyword: "IES"}
	TypeUnconditionedSpace = GemType{Layer: 1, Colour: 0, Category: 1, Type: 1, Subtype: 2002, ColourRGB: 16711680, Keyword: "IES"}
	TypeTranslucentShade   = GemType{Layer: 64, Colour: 0, Category: 1, Type: 1, Subtype: 2102, ColourRGB: 0, Keyword: "IES"}
	TypeContextBuilding    = GemType{Layer: 62, Colour: 0, Category: 1, Type: 2, Subtype: 0, ColourRGB: 16711935, Keyword: "IES"}
	TypeTopography         = GemType{Layer: 63, Colour: 0, Category: 1, Type: 3, Subtype: 0, ColourRGB: 38400, Keyword: "IES"}
	TypeShade              = GemType{Layer: 64, Colour: 62, Category: 1, Type: 4, Subtype: 0, ColourRGB: 65280, Keyword: "IES"}
)

// IsSpace reports whether the record encloses a room volume.
func (t GemType) IsSpace() bool {
	return t == TypeSpace || t == TypeUnconditionedSpace
}

// GemTypeFromHeader resolves the record category from the parsed header
// fields. An unknown combination is an error; new object types must be added
// here explicitly rather than guessed at.
func GemTypeFromHeader(category, typ, subtype int, keyword string) (GemType, error) {
	switch {
	case category == 1 && typ == 1 && subtype == 2001 && keyword == "IES":
		return TypeSpace, nil
	case category == 1 && typ == 1 && subtype == 2002 && keyword == "IES":
		return TypeUnconditionedSpace, nil
	case category == 1 && typ == 1 && subtype == 2102 && keyword == "IES":
		return TypeTranslucentShade, nil
	case category == 1 && typ == 2 && subtype == 0 && keyword == "IES":
		return TypeContextBuilding, nil
	case category == 1 && typ == 3 && subtype == 0 && keyword == "IES":
		return TypeTopography, nil
	case category == 1 && typ == 4 && subtype == 0 && keyword == "IES":
		return TypeShade, nil
	}
	return GemType{}, fmt.Errorf("unknown GEM object type %d-%d-%d-%s", category, typ, subtype, keyword)
}
