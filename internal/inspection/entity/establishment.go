package entity

import "time"

// Company is a client company that owns one or more establishments.
type Company struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	CNPJ      string    `json:"cnpj" gorm:"size:20;uniqueIndex"`
	Status    string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Establishments []Establishment `json:"establishments,omitempty" gorm:"foreignKey:CompanyID"`
}

func (Company) TableName() string {
	return "companies"
}

// Establishment is an inspected site (restaurant, kitchen, plant).
type Establishment struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	CompanyID    string    `json:"company_id" gorm:"size:32;not null;index"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	Address      string    `json:"address" gorm:"size:500"`
	City         string    `json:"city" gorm:"size:100"`
	State        string    `json:"state" gorm:"size:2"`
	ConsultantID *string   `json:"consultant_id" gorm:"size:32;index"` // assigned consultant
	Status       string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Company  *Company               `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Contacts []EstablishmentContact `json:"contacts,omitempty" gorm:"foreignKey:EstablishmentID"`
}

func (Establishment) TableName() string {
	return "establishments"
}

// EstablishmentContact is a contact person at an establishment, used for
// WhatsApp sharing of approved plans.
type EstablishmentContact struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	EstablishmentID string    `json:"establishment_id" gorm:"size:32;not null;index"`
	Name            string    `json:"name" gorm:"size:128;not null"`
	Title           string    `json:"title" gorm:"size:100"`
	Phone           string    `json:"phone" gorm:"size:30"` // E.164, used for wa.me links
	Email           string    `json:"email" gorm:"size:200"`
	IsPrimary       bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
}

func (EstablishmentContact) TableName() string {
	return "establishment_contacts"
}
