package handlers

import (
	"gorm.io/gorm"

	"github.com/echo-cqy/codeling/internal/storage"
)

var (
	store *storage.Service
	db    *gorm.DB
)

// Setup wires the handler package to the storage facade and the optional
// remote database. db may be nil when DATABASE_URL is unset; auth and sync
// endpoints then answer 503.
func Setup(s *storage.Service, database *gorm.DB) {
	store = s
	db = database
}
