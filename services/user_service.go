package services

import (
	"errors"

	"roomsense-http-service/config"
	"roomsense-http-service/models"
	"roomsense-http-service/utils"

	"gorm.io/gorm"
)

// Recoverable user errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExist   = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// InterfaceUserService defines the user service interface
type InterfaceUserService interface {
	Authenticate(username, password string) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	GetUserByID(id uint) (*models.User, error)
	CreateUser(username, password string, role models.UserRole) (*models.User, error)
	FindManager() (*models.User, error)
}

// UserService provides user accounts and role lookups
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// Authenticate verifies a username/password pair
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetAllUsers returns all user accounts
func (s *UserService) GetAllUsers() ([]models.User, error) {
	var users []models.User
	err := s.DB.Order("id").Find(&users).Error
	return users, err
}

// GetUserByID returns one user account
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user account with a hashed password
func (s *UserService) CreateUser(username, password string, role models.UserRole) (*models.User, error) {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserAlreadyExist
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Password: hash,
		Role:     role,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindManager returns the manager with the lowest ID, or ErrUserNotFound
// when the deployment has none. The pick is arbitrary but deterministic.
func (s *UserService) FindManager() (*models.User, error) {
	var manager models.User
	err := s.DB.Where("role = ?", models.RoleManager).Order("id").First(&manager).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &manager, nil
}
