package schema

// CatalogMediaTagTable represents the 'catalog.mediatag' junction table
type CatalogMediaTagTable struct {
	Table   string
	MediaID string
	TagID   string
	Kind    string
}

// CatalogMediaTag is the schema definition for catalog.mediatag
var CatalogMediaTag = CatalogMediaTagTable{
	Table:   "catalog.mediatag",
	MediaID: "mediaid",
	TagID:   "tagid",
	Kind:    "mediakind",
}

func (t CatalogMediaTagTable) Columns() []string {
	return []string{t.MediaID, t.TagID, t.Kind}
}
