package model

import "time"

type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CoverURL  string    `json:"cover_url"`
	AddedBy   int64     `json:"added_by"`
	ReadDate  string    `json:"read_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BookWithPicker is a Book joined with the member who picked it.
type BookWithPicker struct {
	Book
	PickerName   string `json:"added_by_name"`
	PickerAvatar string `json:"added_by_avatar"`
}
