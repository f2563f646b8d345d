package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/medminder/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueRepository stores kv entries in the kv_entries table and satisfies
// kv.Store.
type KeyValueRepository struct {
	database *gorm.DB
	now      func() time.Time
}

func NewKeyValueRepository(database *gorm.DB) *KeyValueRepository {
	return &KeyValueRepository{database: database, now: time.Now}
}

func (repo *KeyValueRepository) Get(key string) ([]byte, bool, error) {
	var entry models.KeyValueEntry
	err := repo.database.Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load kv entry %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (repo *KeyValueRepository) Put(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	entry := models.KeyValueEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: repo.now().UTC(),
	}
	err := repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("store kv entry %s: %w", key, err)
	}
	return nil
}

func (repo *KeyValueRepository) Delete(key string) error {
	if err := repo.database.Where("entry_key = ?", key).Delete(&models.KeyValueEntry{}).Error; err != nil {
		return fmt.Errorf("delete kv entry %s: %w", key, err)
	}
	return nil
}
