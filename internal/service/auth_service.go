package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterSellerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	ShopName string `json:"shop_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Region   string `json:"region"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	SellerID    string `json:"seller_id"`
	Role        string `json:"role"`
}

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RegisterSeller(ctx context.Context, req RegisterSellerRequest) (*model.Seller, error)
}

type authService struct {
	sellerRepo repository.SellerRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
}

func NewAuthService(sellerRepo repository.SellerRepository, jwtSecret []byte, tokenTTL time.Duration) AuthService {
	return &authService{sellerRepo: sellerRepo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	seller, err := s.sellerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(req.Password)); err != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  seller.ID.String(),
		"role": seller.Role,
		"shop": seller.ShopName,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return TokenResponse{
		AccessToken: token,
		SellerID:    seller.ID.String(),
		Role:        seller.Role,
	}, nil
}

func (s *authService) RegisterSeller(ctx context.Context, req RegisterSellerRequest) (*model.Seller, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	seller := &model.Seller{
		Email:        req.Email,
		ShopName:     req.ShopName,
		PasswordHash: string(hash),
		Role:         model.RoleSeller,
		Region:       req.Region,
	}
	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		return nil, fmt.Errorf("failed to create seller: %w", err)
	}
	return seller, nil
}
