package models

import "time"

type Recipe struct {
	ID             uint       `gorm:"column:id;primary_key" json:"id"`
	AuthorID       uint       `gorm:"column:author_id;not null;index" json:"author_id"`
	Name           string     `gorm:"column:name;size:256;not null;unique_index" json:"name"`
	Image          string     `gorm:"column:image" json:"image"`
	Text           string     `gorm:"column:text;type:text" json:"text"`
	CookingTime    int        `gorm:"column:cooking_time;not null" json:"cooking_time"`
	ShortLinkToken string     `gorm:"column:short_link_token;size:8;unique_index" json:"-"`
	PubDate        *time.Time `gorm:"column:pub_date;index" json:"pub_date"`
}

// TableName sets the insert table name for this struct type
func (r *Recipe) TableName() string {
	return "recipes"
}
