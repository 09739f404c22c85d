package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Partners   *PartnerRepository
	PeriodLogs *PeriodLogRepository
	DailyLogs  *DailyLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Partners:   NewPartnerRepository(database),
		PeriodLogs: NewPeriodLogRepository(database),
		DailyLogs:  NewDailyLogRepository(database),
	}
}
