// internal/models/feedback.go
package models

type Feedback struct {
	BaseModel
	FirstName string `json:"first_name" gorm:"size:100;not null"`
	LastName  string `json:"last_name" gorm:"size:100;not null"`
	Email     string `json:"email" gorm:"size:100;not null"`
	Phone     string `json:"phone" gorm:"size:30"`
	Country   string `json:"country" gorm:"size:150;default:'Россия'"`
	Message   string `json:"message" gorm:"type:text;not null"`
}
