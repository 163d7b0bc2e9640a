package models

import "time"

// Post is a user-authored entry, optionally carrying an image attachment.
// Picture holds the generated filename inside the upload directory, empty
// when the post has no attachment. Date is the day the post is associated
// with, in YYYY-MM-DD form.
type Post struct {
	ID        int64     `json:"id"`
	Picture   string    `json:"picture,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      string    `json:"date"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
