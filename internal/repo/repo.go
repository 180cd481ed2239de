package repo

import (
	"gorm.io/gorm"
)

// GormRepo is the datastore handle every component receives explicitly; the
// process entry point owns its lifecycle.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
