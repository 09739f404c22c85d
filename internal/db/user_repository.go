package db

import (
	"github.com/terraincognita07/redrecon/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdatePasswordHash(userID uint, passwordHash string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

// UpdateTelegramChatID stores the chat notifications are delivered to; nil unlinks it.
func (repo *UserRepository) UpdateTelegramChatID(userID uint, chatID *int64) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("telegram_chat_id", chatID).Error
}

// TelegramChatID reports the linked chat of userID, if any.
func (repo *UserRepository) TelegramChatID(userID uint) (int64, bool, error) {
	var chatIDs []*int64
	if err := repo.database.Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("telegram_chat_id", &chatIDs).Error; err != nil {
		return 0, false, err
	}
	if len(chatIDs) == 0 || chatIDs[0] == nil || *chatIDs[0] == 0 {
		return 0, false, nil
	}
	return *chatIDs[0], true, nil
}
