package service

import (
	"errors"

	"sabdakrida_backend/internal/config"
	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/repository"
	"sabdakrida_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo *repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, jwtCfg: jwtCfg}
}

func (s *AuthService) Register(name, email, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.Student,
		Language: "en",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrUserNotFound
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrUserNotFound
	}

	token, err := util.GenerateJWT(user, s.jwtCfg.Secret, s.jwtCfg.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return "", nil, err
	}
	return token, user, nil
}
