package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories groups all data access objects.
type Repositories struct {
	Inspection    *InspectionRepository
	Plan          *PlanRepository
	Job           *JobRepository
	User          *UserRepository
	Establishment *EstablishmentRepository
	ActivityLog   *ActivityLogRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Inspection:    NewInspectionRepository(db),
		Plan:          NewPlanRepository(db),
		Job:           NewJobRepository(db),
		User:          NewUserRepository(db),
		Establishment: NewEstablishmentRepository(db),
		ActivityLog:   NewActivityLogRepository(db),
	}
}
