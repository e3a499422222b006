package schema

// CoreAnimeTable represents the 'core.anime' table and the stored functions
// that front it. Reads and writes go through the functions; the column names
// describe the row shape they return.
type CoreAnimeTable struct {
	Table        string
	ID           string
	Name         string
	NameKey      string
	Status       string
	StudioID     string
	ReleaseDate  string
	EpisodeCount string
	Genres       string
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string

	FnGetByName    string
	FnGetByID      string
	FnGetAll       string
	FnAdd          string
	FnUpdate       string
	FnDeleteByName string
}

// CoreAnime is the schema definition for core.anime
var CoreAnime = CoreAnimeTable{
	Table:        "core.anime",
	ID:           "id",
	Name:         "name",
	NameKey:      "namekey",
	Status:       "status",
	StudioID:     "studioid",
	ReleaseDate:  "releasedate",
	EpisodeCount: "episodecount",
	Genres:       "genres",
	CreatedBy:    "createdby",
	UpdatedBy:    "updatedby",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",

	FnGetByName:    "core.get_anime_by_name",
	FnGetByID:      "core.get_anime_by_id",
	FnGetAll:       "core.get_all_anime",
	FnAdd:          "core.add_anime",
	FnUpdate:       "core.update_anime",
	FnDeleteByName: "core.delete_anime_by_name",
}

// Columns lists the columns returned to the application, in scan order.
// NameKey is write and filter only.
func (t CoreAnimeTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Status, t.StudioID, t.ReleaseDate, t.EpisodeCount,
		t.Genres, t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
