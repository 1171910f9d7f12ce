package database

import "linksphere/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Connection{},
		&models.Post{},
		&models.PostLike{},
		&models.PostSave{},
		&models.Comment{},
	}
}
