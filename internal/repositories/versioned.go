package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var ErrVersionConflict = errors.New("version conflict")

// updateVersioned применяет частичное обновление и увеличивает version.
// Если expectedVersion задан и не совпадает с сохраненной версией - ErrVersionConflict.
func updateVersioned(db *gorm.DB, model interface{}, id string, expectedVersion *int, updates map[string]interface{}, notFound error) error {
	updates["version"] = gorm.Expr("version + 1")

	query := db.Model(model).Where("id = ?", id)
	if expectedVersion != nil {
		query = query.Where("version = ?", *expectedVersion)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Ничего не обновилось: либо записи нет, либо версия устарела
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return ErrVersionConflict
}
