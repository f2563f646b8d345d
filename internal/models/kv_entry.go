package models

import "time"

type KeyValueEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey"`
	Value     []byte `gorm:"column:entry_value;not null"`
	UpdatedAt time.Time
}

func (KeyValueEntry) TableName() string {
	return "kv_entries"
}
