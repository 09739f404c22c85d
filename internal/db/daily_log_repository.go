package db

import (
	"errors"

	"github.com/google/uuid"
	"github.com/terraincognita07/redrecon/internal/models"
	"gorm.io/gorm"
)

type DailyLogRepository struct {
	database *gorm.DB
}

func NewDailyLogRepository(database *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{database: database}
}

func (repo *DailyLogRepository) ListByPartnerRange(partnerID uint, from *models.CivilDate, to *models.CivilDate) ([]models.DailyLog, error) {
	query := repo.database.Model(&models.DailyLog{}).Where("partner_id = ?", partnerID)
	if from != nil {
		query = query.Where("log_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("log_date <= ?", *to)
	}

	logs := make([]models.DailyLog, 0)
	if err := query.Order("log_date ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *DailyLogRepository) FindByDate(partnerID uint, date models.CivilDate) (models.DailyLog, bool, error) {
	var entry models.DailyLog
	err := repo.database.Where("partner_id = ? AND log_date = ?", partnerID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DailyLog{}, false, nil
	}
	if err != nil {
		return models.DailyLog{}, false, err
	}
	return entry, true, nil
}

func (repo *DailyLogRepository) Create(entry *models.DailyLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return repo.database.Create(entry).Error
}

func (repo *DailyLogRepository) Save(entry *models.DailyLog) error {
	return repo.database.Save(entry).Error
}

func (repo *DailyLogRepository) DeleteByDate(partnerID uint, date models.CivilDate) error {
	return repo.database.Where("partner_id = ? AND log_date = ?", partnerID, date).Delete(&models.DailyLog{}).Error
}
