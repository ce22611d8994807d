package Models

import (
	"gorm.io/gorm"
)

type UserProfile string

const (
	ProfileMaster    UserProfile = "Master"
	ProfileAdvanced  UserProfile = "Advanced"
	ProfileRequester UserProfile = "Requester"
	ProfileOSControl UserProfile = "OS Control"
)

// User is the requester directory. It carries display data only; there is no
// authentication in this system.
type User struct {
	gorm.Model
	Name    string      `json:"name" gorm:"size:255;not null"`
	Email   string      `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Profile UserProfile `json:"profile" gorm:"size:50;not null;default:'Requester'"`
}

type UserRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Profile string `json:"profile" validate:"required,oneof=Master Advanced Requester 'OS Control'"`
}
