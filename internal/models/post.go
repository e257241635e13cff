package models

import "time"

// Post is a blog entry owned by exactly one user. The author is fixed at
// creation; only the author may update or delete the post.
type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"type:varchar(100)" validate:"required,max=100"`
	Content    string    `json:"content" gorm:"type:text" validate:"required"`
	DatePosted time.Time `json:"date_posted" gorm:"index;autoCreateTime"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Author     User      `json:"-" gorm:"foreignKey:UserID"`
}
