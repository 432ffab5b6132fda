package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string    `gorm:"type:varchar(255);unique;not null"`
	FullName       string    `gorm:"type:varchar(255);not null"`
	Role           string    `gorm:"type:varchar(16);not null;default:'client';index"`
	Status         string    `gorm:"type:varchar(16);not null;default:'active'"`
	PayoutAccount  string    `gorm:"type:varchar(64)"`
	PayoutBankCode string    `gorm:"type:varchar(16)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
