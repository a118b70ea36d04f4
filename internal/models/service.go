package models

import "gorm.io/datatypes"

// Service - услуга, которую предлагает владелец портфолио
type Service struct {
	Content
	Features datatypes.JSONSlice[string] `json:"features"`
	Price    string                      `json:"price"`
}

func (Service) TableName() string {
	return "services"
}
