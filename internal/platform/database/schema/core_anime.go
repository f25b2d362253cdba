// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreAnimeTable represents the 'core.anime' table
type CoreAnimeTable struct {
	Table         string
	ID            string
	Slug          string
	Title         string
	CoverImageURL string
	CoverKey      string
	Year          string
	Season        string
	StreamingURL  string
	DropDate      string
	ExtraNotes    string
	CreatedAt     string
	UpdatedAt     string
}

// CoreAnime is the schema definition for core.anime
var CoreAnime = CoreAnimeTable{
	Table:         "core.anime",
	ID:            "id",
	Slug:          "slug",
	Title:         "title",
	CoverImageURL: "coverimageurl",
	CoverKey:      "coverkey",
	Year:          "year",
	Season:        "season",
	StreamingURL:  "streamingurl",
	DropDate:      "dropdate",
	ExtraNotes:    "extranotes",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns the public column names in scan order. CoverKey is
// write-only and never selected.
func (t CoreAnimeTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.CoverImageURL, t.Year, t.Season,
		t.StreamingURL, t.DropDate, t.ExtraNotes, t.CreatedAt, t.UpdatedAt,
	}
}

// Qualified prefixes every column with alias, for joins.
func (t CoreAnimeTable) Qualified(alias string) []string {
	columns := t.Columns()
	for i, column := range columns {
		columns[i] = alias + "." + column
	}
	return columns
}

// CoreAnimeFavoriteTable represents the 'core.animefavorite' table
type CoreAnimeFavoriteTable struct {
	Table     string
	UserID    string
	AnimeID   string
	CreatedAt string
}

// CoreAnimeFavorite is the schema definition for core.animefavorite
var CoreAnimeFavorite = CoreAnimeFavoriteTable{
	Table:     "core.animefavorite",
	UserID:    "userid",
	AnimeID:   "animeid",
	CreatedAt: "createdat",
}

// Foreign-key constraint names on core.animefavorite, as reported by dberr.Constraint.
const (
	AnimeFavoriteUserFK  = "animefavorite_userid_fkey"
	AnimeFavoriteAnimeFK = "animefavorite_animeid_fkey"
)
