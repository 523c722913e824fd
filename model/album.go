package model

import "time"

// DefaultCoverURL is stored for albums created without a cover reference.
const DefaultCoverURL = "default-cover.jpg"

// Album represents one catalog entry.
type Album struct {
	ID        int64     `gorm:"column:album_id;primaryKey;autoIncrement" json:"album_id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Artist    string    `gorm:"column:artist;size:255;not null" json:"artist"`
	CoverURL  string    `gorm:"column:cover_url;size:767" json:"cover_url"`
	Barcode   *string   `gorm:"column:barcode;size:64;uniqueIndex" json:"barcode,omitempty"`
	CreatedOn time.Time `gorm:"column:created_on;autoCreateTime" json:"created_on"`
}

// TableName maps Album onto the albums table.
func (Album) TableName() string {
	return "albums"
}
