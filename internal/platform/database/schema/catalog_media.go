package schema

// CatalogMediaTable represents the 'catalog.media' table
type CatalogMediaTable struct {
	Table          string
	ID             string
	Kind           string
	Title          string
	Description    string
	ReleaseDate    string
	CoverImageURL  string
	ExternalID     string
	ExternalSource string
	IsCustom       string
	CreatedBy      string
	CreatedAt      string
	UpdatedAt      string
}

// CatalogMedia is the schema definition for catalog.media
var CatalogMedia = CatalogMediaTable{
	Table:          "catalog.media",
	ID:             "id",
	Kind:           "mediakind",
	Title:          "title",
	Description:    "description",
	ReleaseDate:    "releasedate",
	CoverImageURL:  "coverimageurl",
	ExternalID:     "externalid",
	ExternalSource: "externalsource",
	IsCustom:       "iscustom",
	CreatedBy:      "createdby",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

func (t CatalogMediaTable) Columns() []string {
	return []string{
		t.ID, t.Kind, t.Title, t.Description, t.ReleaseDate, t.CoverImageURL,
		t.ExternalID, t.ExternalSource, t.IsCustom, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
