package models

import (
	"time"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

type Patient struct {
	ID               uint      `gorm:"primaryKey" json:"id" example:"1"`
	FirstName        string    `gorm:"size:100;not null" json:"first_name" example:"Ada"`
	LastName         string    `gorm:"size:100;not null" json:"last_name" example:"Lovelace"`
	DOB              Date      `gorm:"column:dob;not null" json:"dob" swaggertype:"string" format:"date" example:"1985-12-10"`
	Sex              Sex       `gorm:"size:10;not null;index" json:"sex" enums:"male,female,other" example:"female"`
	EthnicBackground string    `gorm:"size:100;not null;index" json:"ethnic_background" example:"White British"`
	CreatedAt        time.Time `gorm:"autoCreateTime;<-:create" json:"created_at" example:"2024-01-01T00:00:00Z"`
}
