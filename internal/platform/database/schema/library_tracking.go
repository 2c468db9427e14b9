package schema

// LibraryTrackingTable represents the 'library.tracking' table
type LibraryTrackingTable struct {
	Table     string
	ID        string
	UserID    string
	MediaID   string
	Kind      string
	Status    string
	Priority  string
	Rating    string
	Progress  string
	StartDate string
	EndDate   string
	Favorite  string
	Notes     string
	CreatedAt string
	UpdatedAt string
}

// LibraryTracking is the schema definition for library.tracking
var LibraryTracking = LibraryTrackingTable{
	Table:     "library.tracking",
	ID:        "id",
	UserID:    "userid",
	MediaID:   "mediaid",
	Kind:      "mediakind",
	Status:    "status",
	Priority:  "priority",
	Rating:    "rating",
	Progress:  "progress",
	StartDate: "startdate",
	EndDate:   "enddate",
	Favorite:  "favorite",
	Notes:     "notes",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t LibraryTrackingTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.MediaID, t.Kind, t.Status, t.Priority, t.Rating, t.Progress,
		t.StartDate, t.EndDate, t.Favorite, t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}
