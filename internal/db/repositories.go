package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	KeyValues *KeyValueRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		KeyValues: NewKeyValueRepository(database),
	}
}
