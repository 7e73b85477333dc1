package views

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
)

// Nav feeds the shared navbar partial.
type Nav struct {
	User    model.User
	IsAdmin bool
	Active  string
}

func NewNav(user model.User, active string) Nav {
	return Nav{User: user, IsAdmin: user.IsAdmin(), Active: active}
}

type Page struct {
	Title string
	Nav   Nav
}

type LoginData struct {
	Page
	Members  []model.User
	Selected *model.User
	Error    string
}

type DashboardData struct {
	Page
	WrappedVisible bool
}

type BooksData struct {
	Page
	Books []model.BookWithPicker
}

type BookDetailData struct {
	Page
	Book model.BookWithPicker
}

type ProfileData struct {
	Page
	Member    model.User
	Picks     []model.Book
	PicksNoun string
}

func NewProfileData(nav Nav, member model.User, picks []model.Book) ProfileData {
	noun := "books"
	if len(picks) == 1 {
		noun = "book"
	}
	return ProfileData{
		Page:      Page{Title: member.DisplayName, Nav: nav},
		Member:    member,
		Picks:     picks,
		PicksNoun: noun,
	}
}

type RatingChoice struct {
	Value   string
	Checked bool
}

type ChoiceOption struct {
	Value   string
	Checked bool
}

// QuestionForm is one question rendered as a form field, pre-filled
// with the member's saved answer.
type QuestionForm struct {
	ID       int64
	Field    string
	Text     string
	IsRating bool
	IsChoice bool
	Ratings  []RatingChoice
	Choices  []ChoiceOption
	Answer   string
}

func NewQuestionForm(q model.Question, answer string) QuestionForm {
	form := QuestionForm{
		ID:     q.ID,
		Field:  fmt.Sprintf("q_%d", q.ID),
		Text:   q.QuestionText,
		Answer: answer,
	}

	switch q.QuestionType {
	case "rating":
		form.IsRating = true
		for n := 1; n <= 5; n++ {
			value := strconv.Itoa(n)
			form.Ratings = append(form.Ratings, RatingChoice{Value: value, Checked: answer == value})
		}
	case "multiple_choice":
		var options []string
		if q.Options != "" {
			if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
				options = nil
			}
		}
		if len(options) > 0 {
			form.IsChoice = true
			for _, opt := range options {
				form.Choices = append(form.Choices, ChoiceOption{Value: opt, Checked: answer == opt})
			}
		}
	}

	return form
}

type QuestionsData struct {
	Page
	Questions []QuestionForm
	Saved     bool
}

type WrappedResponse struct {
	DisplayName string
	AvatarURL   string
	Text        string
	Stars       string
}

// WrappedCard is one question with everyone's answers, plus the average
// for rating questions.
type WrappedCard struct {
	Question  string
	IsRating  bool
	Average   string
	Responses []WrappedResponse
}

func NewWrappedCard(q model.Question, answers []model.AnswerWithMember) WrappedCard {
	card := WrappedCard{Question: q.QuestionText, IsRating: q.QuestionType == "rating"}

	var sum, count int
	for _, a := range answers {
		resp := WrappedResponse{
			DisplayName: a.DisplayName,
			AvatarURL:   a.AvatarURL,
			Text:        a.Answer.Answer,
		}
		if card.IsRating {
			if n, err := strconv.Atoi(strings.TrimSpace(a.Answer.Answer)); err == nil {
				sum += n
				count++
				if n > 0 && n <= 5 {
					resp.Stars = strings.Repeat("⭐", n)
				}
			}
		}
		card.Responses = append(card.Responses, resp)
	}

	if card.IsRating {
		card.Average = "N/A"
		if count > 0 {
			card.Average = strconv.FormatFloat(float64(sum)/float64(count), 'f', 1, 64)
		}
	}

	return card
}

type WrappedData struct {
	Page
	Cards []WrappedCard
}

type AdminRow struct {
	DisplayName string
	AvatarURL   string
	Answered    int
	Total       int
	Percent     int
	Complete    bool
}

func NewAdminRow(p model.MemberProgress) AdminRow {
	row := AdminRow{
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Answered:    p.Answered,
		Total:       p.Total,
	}
	if p.Total > 0 {
		row.Percent = p.Answered * 100 / p.Total
		row.Complete = p.Answered == p.Total
	}
	return row
}

type AdminData struct {
	Page
	WrappedVisible bool
	Rows           []AdminRow
}
