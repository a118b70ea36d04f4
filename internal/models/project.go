package models

type Project struct {
	Content
}

func (Project) TableName() string {
	return "projects"
}
