package models

// Chat is a titled room with an optional member list. Deleting a chat removes
// its posts but only detaches its messages (chat_id set NULL).
type Chat struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	Title   string `gorm:"size:100;not null" json:"title"`
	Members []User `gorm:"many2many:chat_members;constraint:OnDelete:CASCADE" json:"-"`
}

// Message is a line of text inside a chat. Both references are nullable:
// deleting the chat or the author leaves the message behind with the field
// set to NULL.
type Message struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ChatID   *uint `gorm:"index" json:"chat"`
	Chat     *Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:SET NULL" json:"-"`
	AuthorID *uint `gorm:"index" json:"author"`
	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	Text     string `gorm:"type:text;not null;default:''" json:"text"`
}

// ChatResponse is the wire representation of a Chat. The internal id is
// deliberately excluded; clients address chats by URL only.
type ChatResponse struct {
	Title   string `json:"title"`
	Members []uint `json:"members"`
}

// Response converts a Chat (with preloaded members) to its wire shape.
func (c *Chat) Response() ChatResponse {
	members := make([]uint, 0, len(c.Members))
	for _, m := range c.Members {
		members = append(members, m.ID)
	}
	return ChatResponse{Title: c.Title, Members: members}
}
