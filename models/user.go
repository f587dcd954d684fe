package models

import "time"

type User struct {
	ID           uint       `gorm:"column:id;primary_key" json:"id"`
	Email        string     `gorm:"column:email;size:254;not null;unique_index" json:"email"`
	Username     string     `gorm:"column:username;size:150;not null;unique_index" json:"username"`
	FirstName    string     `gorm:"column:first_name;size:150" json:"first_name"`
	LastName     string     `gorm:"column:last_name;size:150" json:"last_name"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	Avatar       string     `gorm:"column:avatar" json:"avatar"`
	TokenVersion int        `gorm:"column:token_version;not null;default:0" json:"-"`
	CreatedAt    *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (u *User) TableName() string {
	return "users"
}
