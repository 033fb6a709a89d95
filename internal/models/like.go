package models

import "time"

// Like marks that a user liked a post. The composite unique index enforces at
// most one like per (user, post) pair even under concurrent double-taps; the
// toggle logic in the data access layer is check-then-act on top of it.
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index:idx_likes_user_post,unique"`
	PostID    string    `json:"post_id" gorm:"index:idx_likes_user_post,unique;index"`
	CreatedAt time.Time `json:"created_at"`
}
