package db

import (
	"errors"

	"github.com/terraincognita07/redrecon/internal/models"
	"gorm.io/gorm"
)

type PartnerRepository struct {
	database *gorm.DB
}

func NewPartnerRepository(database *gorm.DB) *PartnerRepository {
	return &PartnerRepository{database: database}
}

// FindByUserID reports found=false instead of an error when the user has no partner yet.
func (repo *PartnerRepository) FindByUserID(userID uint) (models.Partner, bool, error) {
	var partner models.Partner
	err := repo.database.Where("user_id = ?", userID).First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Partner{}, false, nil
	}
	if err != nil {
		return models.Partner{}, false, err
	}
	return partner, true, nil
}

func (repo *PartnerRepository) ListAll() ([]models.Partner, error) {
	partners := make([]models.Partner, 0)
	if err := repo.database.Order("id ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

func (repo *PartnerRepository) Create(partner *models.Partner) error {
	return repo.database.Create(partner).Error
}

func (repo *PartnerRepository) Save(partner *models.Partner) error {
	return repo.database.Save(partner).Error
}

func (repo *PartnerRepository) UpdateLastPeriodStart(partnerID uint, start models.CivilDate) error {
	return repo.database.Model(&models.Partner{}).Where("id = ?", partnerID).Update("last_period_start", start).Error
}

// DeleteWithLogs removes the partner together with every period and daily log.
func (repo *PartnerRepository) DeleteWithLogs(partnerID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("partner_id = ?", partnerID).Delete(&models.PeriodLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("partner_id = ?", partnerID).Delete(&models.DailyLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Partner{}, partnerID).Error
	})
}
