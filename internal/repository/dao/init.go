package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Event{},
		&ItemRule{},
		&EventAdmin{},
		&Participant{},
		&VirtualToken{},
		&ItemGrant{},
		&ScoreEntry{},
	)
}
