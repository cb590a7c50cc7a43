package models

import (
	"github.com/uptrace/bun"
)

// Card statuses as stored in the database. StatusAll is the sentinel the
// search filter accepts to mean "no status filter".
const (
	StatusToDo  = "TO-DO"
	StatusDoing = "DOING"
	StatusDone  = "DONE"
	StatusAll   = "Todos"
)

type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	CardID    int64  `bun:"card_id,pk,autoincrement" json:"cardId"`
	UserID    int64  `bun:"user_id,notnull" json:"userId"`
	Title     string `bun:"title,notnull" json:"title"`
	Content   string `bun:"content,notnull" json:"content"`
	Status    string `bun:"status,notnull" json:"status"`
	CreatedAt string `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt string `bun:"updated_at,notnull" json:"updatedAt"`

	// Owning user, hydrated on reads so responses carry the owner's
	// public fields under "userCard".
	UserCard *User `bun:"rel:belongs-to,join:user_id=user_id" json:"userCard,omitempty"`
}
