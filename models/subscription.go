package models

type Subscription struct {
	ID       uint `gorm:"column:id;primary_key" json:"id"`
	UserID   uint `gorm:"column:user_id;not null;unique_index:idx_subscription_user_author" json:"user_id"`
	AuthorID uint `gorm:"column:author_id;not null;unique_index:idx_subscription_user_author;index" json:"author_id"`
}

// TableName sets the insert table name for this struct type
func (s *Subscription) TableName() string {
	return "subscriptions"
}
