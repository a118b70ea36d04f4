package models

// AllModels - список для AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&Service{},
	}
}
