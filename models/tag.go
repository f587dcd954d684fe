package models

type Tag struct {
	ID   uint   `gorm:"column:id;primary_key" json:"id"`
	Name string `gorm:"column:name;size:32;not null" json:"name"`
	Slug string `gorm:"column:slug;size:32;not null;unique_index" json:"slug"`
}

// TableName sets the insert table name for this struct type
func (t *Tag) TableName() string {
	return "tags"
}
