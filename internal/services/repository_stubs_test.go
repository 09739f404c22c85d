package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/terraincognita07/redrecon/internal/models"
	"gorm.io/gorm"
)

type userRepositoryStub struct {
	users  map[uint]models.User
	nextID uint
}

func newUserRepositoryStub() *userRepositoryStub {
	return &userRepositoryStub{users: make(map[uint]models.User), nextID: 1}
}

func (stub *userRepositoryStub) ExistsByNormalizedEmail(email string) (bool, error) {
	_, err := stub.FindByNormalizedEmail(email)
	return err == nil, nil
}

func (stub *userRepositoryStub) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *userRepositoryStub) FindByID(userID uint) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *userRepositoryStub) Create(user *models.User) error {
	user.ID = stub.nextID
	stub.nextID++
	stub.users[user.ID] = *user
	return nil
}

func (stub *userRepositoryStub) UpdatePasswordHash(userID uint, passwordHash string) error {
	user, ok := stub.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	stub.users[userID] = user
	return nil
}

func (stub *userRepositoryStub) UpdateTelegramChatID(userID uint, chatID *int64) error {
	user, ok := stub.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.TelegramChatID = chatID
	stub.users[userID] = user
	return nil
}

type partnerRepositoryStub struct {
	partners map[uint]models.Partner
	nextID   uint
	periods  *periodLogRepositoryStub
	logs     *dailyLogRepositoryStub
}

func newPartnerRepositoryStub() *partnerRepositoryStub {
	return &partnerRepositoryStub{partners: make(map[uint]models.Partner), nextID: 1}
}

func (stub *partnerRepositoryStub) FindByUserID(userID uint) (models.Partner, bool, error) {
	for _, partner := range stub.partners {
		if partner.UserID == userID {
			return partner, true, nil
		}
	}
	return models.Partner{}, false, nil
}

func (stub *partnerRepositoryStub) ListAll() ([]models.Partner, error) {
	partners := make([]models.Partner, 0, len(stub.partners))
	for _, partner := range stub.partners {
		partners = append(partners, partner)
	}
	sort.Slice(partners, func(i, j int) bool { return partners[i].ID < partners[j].ID })
	return partners, nil
}

func (stub *partnerRepositoryStub) Create(partner *models.Partner) error {
	partner.ID = stub.nextID
	stub.nextID++
	stub.partners[partner.ID] = *partner
	return nil
}

func (stub *partnerRepositoryStub) Save(partner *models.Partner) error {
	if _, ok := stub.partners[partner.ID]; !ok {
		return fmt.Errorf("partner %d missing", partner.ID)
	}
	stub.partners[partner.ID] = *partner
	return nil
}

func (stub *partnerRepositoryStub) UpdateLastPeriodStart(partnerID uint, start models.CivilDate) error {
	partner := stub.partners[partnerID]
	partner.LastPeriodStart = &start
	stub.partners[partnerID] = partner
	return nil
}

func (stub *partnerRepositoryStub) DeleteWithLogs(partnerID uint) error {
	delete(stub.partners, partnerID)
	if stub.periods != nil {
		for id, entry := range stub.periods.entries {
			if entry.PartnerID == partnerID {
				delete(stub.periods.entries, id)
			}
		}
	}
	if stub.logs != nil {
		for key, entry := range stub.logs.entries {
			if entry.PartnerID == partnerID {
				delete(stub.logs.entries, key)
			}
		}
	}
	return nil
}

type periodLogRepositoryStub struct {
	entries map[string]models.PeriodLog
	nextID  int
}

func newPeriodLogRepositoryStub() *periodLogRepositoryStub {
	return &periodLogRepositoryStub{entries: make(map[string]models.PeriodLog), nextID: 1}
}

func (stub *periodLogRepositoryStub) ListByPartner(partnerID uint, skip int, limit int) ([]models.PeriodLog, error) {
	logs := make([]models.PeriodLog, 0)
	for _, entry := range stub.entries {
		if entry.PartnerID == partnerID {
			logs = append(logs, entry)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].StartDate.After(logs[j].StartDate) })
	if skip >= len(logs) {
		return []models.PeriodLog{}, nil
	}
	logs = logs[skip:]
	if limit > 0 && limit < len(logs) {
		logs = logs[:limit]
	}
	return logs, nil
}

func (stub *periodLogRepositoryStub) FindByID(partnerID uint, id string) (models.PeriodLog, bool, error) {
	entry, ok := stub.entries[id]
	if !ok || entry.PartnerID != partnerID {
		return models.PeriodLog{}, false, nil
	}
	return entry, true, nil
}

func (stub *periodLogRepositoryStub) ExistsActualByStartDate(partnerID uint, start models.CivilDate) (bool, error) {
	for _, entry := range stub.entries {
		if entry.PartnerID == partnerID && !entry.IsPredicted && entry.StartDate.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func (stub *periodLogRepositoryStub) LatestActualBefore(partnerID uint, start models.CivilDate) (models.PeriodLog, bool, error) {
	var latest models.PeriodLog
	found := false
	for _, entry := range stub.entries {
		if entry.PartnerID != partnerID || entry.IsPredicted || !entry.StartDate.Before(start) {
			continue
		}
		if !found || entry.StartDate.After(latest.StartDate) {
			latest = entry
			found = true
		}
	}
	return latest, found, nil
}

func (stub *periodLogRepositoryStub) CreateActual(entry *models.PeriodLog) error {
	for id, existing := range stub.entries {
		if existing.PartnerID == entry.PartnerID && existing.IsPredicted && !existing.StartDate.Before(entry.StartDate) {
			delete(stub.entries, id)
		}
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("period-%d", stub.nextID)
		stub.nextID++
	}
	stub.entries[entry.ID] = *entry
	return nil
}

func (stub *periodLogRepositoryStub) Save(entry *models.PeriodLog) error {
	stub.entries[entry.ID] = *entry
	return nil
}

func (stub *periodLogRepositoryStub) Delete(partnerID uint, id string) error {
	if entry, ok := stub.entries[id]; ok && entry.PartnerID == partnerID {
		delete(stub.entries, id)
	}
	return nil
}

type dailyLogRepositoryStub struct {
	entries map[string]models.DailyLog
}

func newDailyLogRepositoryStub() *dailyLogRepositoryStub {
	return &dailyLogRepositoryStub{entries: make(map[string]models.DailyLog)}
}

func (stub *dailyLogRepositoryStub) key(partnerID uint, date models.CivilDate) string {
	return fmt.Sprintf("%d:%s", partnerID, date)
}

func (stub *dailyLogRepositoryStub) ListByPartnerRange(partnerID uint, from *models.CivilDate, to *models.CivilDate) ([]models.DailyLog, error) {
	logs := make([]models.DailyLog, 0)
	for _, entry := range stub.entries {
		if entry.PartnerID != partnerID {
			continue
		}
		if from != nil && entry.LogDate.Before(*from) {
			continue
		}
		if to != nil && entry.LogDate.After(*to) {
			continue
		}
		logs = append(logs, entry)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].LogDate.Before(logs[j].LogDate) })
	return logs, nil
}

func (stub *dailyLogRepositoryStub) FindByDate(partnerID uint, date models.CivilDate) (models.DailyLog, bool, error) {
	entry, ok := stub.entries[stub.key(partnerID, date)]
	return entry, ok, nil
}

func (stub *dailyLogRepositoryStub) Create(entry *models.DailyLog) error {
	if entry.ID == "" {
		entry.ID = stub.key(entry.PartnerID, entry.LogDate)
	}
	stub.entries[stub.key(entry.PartnerID, entry.LogDate)] = *entry
	return nil
}

func (stub *dailyLogRepositoryStub) Save(entry *models.DailyLog) error {
	stub.entries[stub.key(entry.PartnerID, entry.LogDate)] = *entry
	return nil
}

func (stub *dailyLogRepositoryStub) DeleteByDate(partnerID uint, date models.CivilDate) error {
	delete(stub.entries, stub.key(partnerID, date))
	return nil
}

type deliveryCall struct {
	Action string
	Key    string
	At     time.Time
}

type deliveryRecorder struct {
	calls []deliveryCall
}

func (recorder *deliveryRecorder) CancelByIdentifier(_ context.Context, key string) error {
	recorder.calls = append(recorder.calls, deliveryCall{Action: "cancel", Key: key})
	return nil
}

func (recorder *deliveryRecorder) ScheduleAt(_ context.Context, notification ScheduledNotification) error {
	recorder.calls = append(recorder.calls, deliveryCall{Action: "schedule", Key: notification.Key, At: notification.Plan.TriggerAt})
	return nil
}

type serviceFixture struct {
	users    *userRepositoryStub
	partners *partnerRepositoryStub
	periods  *periodLogRepositoryStub
	logs     *dailyLogRepositoryStub
	now      time.Time
}

func newServiceFixture(now time.Time) *serviceFixture {
	fixture := &serviceFixture{
		users:    newUserRepositoryStub(),
		partners: newPartnerRepositoryStub(),
		periods:  newPeriodLogRepositoryStub(),
		logs:     newDailyLogRepositoryStub(),
		now:      now,
	}
	fixture.partners.periods = fixture.periods
	fixture.partners.logs = fixture.logs
	return fixture
}

func (fixture *serviceFixture) clock() time.Time {
	return fixture.now
}

func (fixture *serviceFixture) partnerService() *PartnerService {
	service := NewPartnerService(fixture.partners)
	service.now = fixture.clock
	return service
}

func (fixture *serviceFixture) periodService() *PeriodLogService {
	service := NewPeriodLogService(fixture.partners, fixture.periods)
	service.now = fixture.clock
	return service
}

func (fixture *serviceFixture) cycleService() *CycleService {
	service := NewCycleService(fixture.partners, fixture.periods, fixture.logs)
	service.now = fixture.clock
	return service
}

func (fixture *serviceFixture) seedPartner(userID uint, lastPeriodStart string) models.Partner {
	partner := NewPartnerProfile(userID)
	partner.Name = "Sam"
	if lastPeriodStart != "" {
		start, err := models.ParseCivilDate(lastPeriodStart)
		if err != nil {
			panic(err)
		}
		partner.LastPeriodStart = &start
	}
	if err := fixture.partners.Create(&partner); err != nil {
		panic(err)
	}
	return partner
}
