package models

import (
	"strings"

	"gorm.io/datatypes"
)

// Content - общие поля проекта и услуги
type Content struct {
	BaseModel
	Title       string                      `gorm:"not null" json:"title"`
	Category    string                      `gorm:"index" json:"category"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Status      ResourceStatus              `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Image       string                      `json:"image"`
	Link        string                      `json:"link"`
	Version     int                         `gorm:"not null;default:1" json:"version"`
}

// CleanList обрезает пробелы и выкидывает пустые строки, порядок сохраняется
func CleanList(items []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
