// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreFanArtTable represents the 'core.fanart' table
type CoreFanArtTable struct {
	Table       string
	ID          string
	UserID      string
	AnimeID     string
	Title       string
	Description string
	ImageKey    string
	ImageURL    string
	CreatedAt   string
}

// CoreFanArt is the schema definition for core.fanart
var CoreFanArt = CoreFanArtTable{
	Table:       "core.fanart",
	ID:          "id",
	UserID:      "userid",
	AnimeID:     "animeid",
	Title:       "title",
	Description: "description",
	ImageKey:    "imagekey",
	ImageURL:    "imageurl",
	CreatedAt:   "createdat",
}

// Foreign-key constraint names on core.fanart.
const (
	FanArtUserFK  = "fanart_userid_fkey"
	FanArtAnimeFK = "fanart_animeid_fkey"
)
