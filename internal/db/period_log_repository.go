package db

import (
	"errors"

	"github.com/google/uuid"
	"github.com/terraincognita07/redrecon/internal/models"
	"gorm.io/gorm"
)

type PeriodLogRepository struct {
	database *gorm.DB
}

func NewPeriodLogRepository(database *gorm.DB) *PeriodLogRepository {
	return &PeriodLogRepository{database: database}
}

func (repo *PeriodLogRepository) ListByPartner(partnerID uint, skip int, limit int) ([]models.PeriodLog, error) {
	query := repo.database.Where("partner_id = ?", partnerID).Order("start_date DESC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	logs := make([]models.PeriodLog, 0)
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *PeriodLogRepository) FindByID(partnerID uint, id string) (models.PeriodLog, bool, error) {
	var entry models.PeriodLog
	err := repo.database.Where("partner_id = ? AND id = ?", partnerID, id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PeriodLog{}, false, nil
	}
	if err != nil {
		return models.PeriodLog{}, false, err
	}
	return entry, true, nil
}

func (repo *PeriodLogRepository) ExistsActualByStartDate(partnerID uint, start models.CivilDate) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.PeriodLog{}).
		Where("partner_id = ? AND is_predicted = ? AND start_date = ?", partnerID, false, start).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// LatestActualBefore returns the newest non-predicted period starting before start.
func (repo *PeriodLogRepository) LatestActualBefore(partnerID uint, start models.CivilDate) (models.PeriodLog, bool, error) {
	var entry models.PeriodLog
	result := repo.database.
		Where("partner_id = ? AND is_predicted = ? AND start_date < ?", partnerID, false, start).
		Order("start_date DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.PeriodLog{}, false, result.Error
	}
	return entry, result.RowsAffected > 0, nil
}

// CreateActual stores entry and clears predicted logs it supersedes, atomically.
func (repo *PeriodLogRepository) CreateActual(entry *models.PeriodLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("partner_id = ? AND is_predicted = ? AND start_date >= ?", entry.PartnerID, true, entry.StartDate).
			Delete(&models.PeriodLog{}).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (repo *PeriodLogRepository) Save(entry *models.PeriodLog) error {
	return repo.database.Save(entry).Error
}

func (repo *PeriodLogRepository) Delete(partnerID uint, id string) error {
	return repo.database.Where("partner_id = ? AND id = ?", partnerID, id).Delete(&models.PeriodLog{}).Error
}
