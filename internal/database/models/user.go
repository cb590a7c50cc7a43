package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TimestampLayout is the application-level datetime format stamped onto
// records by the handlers. Timestamps are never database-generated.
const TimestampLayout = "02-01-2006 15:04:05"

// Now returns the current time in the application timestamp format.
func Now() string {
	return time.Now().Format(TimestampLayout)
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID    int64  `bun:"user_id,pk,autoincrement" json:"userId"`
	Name      string `bun:"name,notnull" json:"name"`
	Email     string `bun:"email,notnull,unique" json:"email"`
	Password  string `bun:"password,notnull" json:"-"`
	CreatedAt string `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt string `bun:"updated_at,notnull" json:"updatedAt"`
}
