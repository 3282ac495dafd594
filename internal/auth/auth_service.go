package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/employee"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	Me(ctx context.Context, employeeID string) (AuthResponse, error)
}

type service struct {
	employeeRepo employee.Repository
}

func NewService(employeeRepo employee.Repository) Service {
	return &service{employeeRepo: employeeRepo}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	e, err := s.employeeRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !e.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	accessToken, err := s.generateToken(e.ID.String(), e.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	refreshToken, err := s.generateToken(e.ID.String(), e.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return accessToken, refreshToken, mapToAuthResponse(e), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidEmployeeID
	}

	e, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrEmployeeNotFound
	}
	if !e.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	newAccess, err := s.generateToken(e.ID.String(), e.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	newRefresh, err := s.generateToken(e.ID.String(), e.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return newAccess, newRefresh, mapToAuthResponse(e), nil
}

func (s *service) Me(ctx context.Context, employeeID string) (AuthResponse, error) {
	e, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrEmployeeNotFound
		}
		return AuthResponse{}, err
	}
	return mapToAuthResponse(e), nil
}

func (s *service) generateToken(employeeID, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"role":        role,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(e *employee.Employee) AuthResponse {
	return AuthResponse{
		ID:        e.ID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Role:      e.Role,
		Position:  e.Position,
	}
}
