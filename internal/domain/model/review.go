package model

import "time"

type Question struct {
	ID           int64  `json:"id"`
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Options      string `json:"options"`
}

type Answer struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	QuestionID int64     `json:"question_id"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnswerWithMember is an Answer joined with the answering member.
type AnswerWithMember struct {
	Answer
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// MemberProgress reports how many questions a member has answered.
type MemberProgress struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Answered    int    `json:"answered"`
	Total       int    `json:"total"`
}
