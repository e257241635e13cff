package models

import "time"

// User represents a registered account.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never the plaintext
	ImageFile string `json:"image_file" gorm:"type:varchar(64);default:'default.jpg'"`
	Posts     []Post `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
