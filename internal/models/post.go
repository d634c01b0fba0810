package models

import "time"

// Post is an authored entry, optionally attached to a chat. Unlike Message,
// the chat reference cascades: deleting the chat deletes the post. The author
// reference is required and also cascades.
//
// CreatedAt is set once at creation and never updated; handlers must not
// write it on update paths.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    *uint     `gorm:"index" json:"chat"`
	Chat      *Chat     `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
