package schema

// DetailColumn maps a per-kind detail column to its JSON attribute name.
type DetailColumn struct {
	Column string
	JSON   string
}

// CatalogDetailTable represents one per-kind detail table joined to catalog.media by mediaid
type CatalogDetailTable struct {
	Table   string
	MediaID string
	Fields  []DetailColumn
}

// Columns returns the detail columns (excluding the join key) in storage order.
func (t CatalogDetailTable) Columns() []string {
	columns := make([]string, len(t.Fields))
	for i, field := range t.Fields {
		columns[i] = field.Column
	}
	return columns
}

// CatalogMovie is the schema definition for catalog.movie
var CatalogMovie = CatalogDetailTable{
	Table:   "catalog.movie",
	MediaID: "mediaid",
	Fields: []DetailColumn{
		{"runtime", "runtime"},
		{"directors", "directors"},
	},
}

// CatalogSeries is the schema definition for catalog.series
var CatalogSeries = CatalogDetailTable{
	Table:   "catalog.series",
	MediaID: "mediaid",
	Fields: []DetailColumn{
		{"totalepisodes", "total_episodes"},
		{"seasons", "seasons"},
		{"releasestatus", "status"},
		{"directors", "directors"},
	},
}

// CatalogAnime is the schema definition for catalog.anime
var CatalogAnime = CatalogDetailTable{
	Table:   "catalog.anime",
	MediaID: "mediaid",
	Fields: []DetailColumn{
		{"originaltitle", "original_title"},
		{"agerating", "age_rating"},
		{"seasons", "seasons"},
		{"totalepisodes", "total_episodes"},
		{"studios", "studios"},
		{"releasestatus", "status"},
	},
}

// CatalogManga is the schema definition for catalog.manga
var CatalogManga = CatalogDetailTable{
	Table:   "catalog.manga",
	MediaID: "mediaid",
	Fields: []DetailColumn{
		{"originaltitle", "original_title"},
		{"agerating", "age_rating"},
		{"totalchapters", "total_chapters"},
		{"totalvolumes", "total_volumes"},
		{"authors", "authors"},
		{"releasestatus", "status"},
	},
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogDetailTable{
	Table:   "catalog.book",
	MediaID: "mediaid",
	Fields: []DetailColumn{
		{"pages", "pages"},
		{"authors", "authors"},
		{"isbn", "isbn"},
	},
}

// CatalogGame is the schema definition for catalog.game
var CatalogGame = CatalogDetailTable{
	Table:   "catalog.game",
	MediaID: "mediaid",
	Fields: []DetailColumn{
		{"platforms", "platforms"},
		{"developers", "developers"},
		{"publishers", "publishers"},
	},
}
