package client

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

// Content - общие поля проекта и услуги
type Content struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Status      Status    `json:"status,omitempty"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	Version     int       `json:"version,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

func (c Content) Common() Content { return c }

type Project struct {
	Content
}

type Service struct {
	Content
	Features []string `json:"features"`
	Price    string   `json:"price"`
}

// Patch - частичное обновление; nil поля не меняются.
// Version включает проверку версии (409 при расхождении)
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Link        *string   `json:"link,omitempty"`
	Features    *[]string `json:"features,omitempty"`
	Price       *string   `json:"price,omitempty"`
	Version     *int      `json:"version,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
