// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. Access and refresh tokens are signed with two distinct
// HS256 secrets so that compromise of one key cannot forge the other token type.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/bizdesk/pkg/uuid"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Principal is the identity an access token is minted for.
type Principal struct {
	AccountID string
	Role      UserRole
	TenantID  string
	BranchID  string
}

// AuthClaims represents the payload embedded inside an access token.
//
// Custom claims are abbreviated to keep the JWT payload small.
type AuthClaims struct {
	jwt.RegisteredClaims

	AccountID string `json:"aid"`
	Role      string `json:"rol"`
	TenantID  string `json:"tid"`
	BranchID  string `json:"bid,omitempty"`
	TokenType string `json:"typ"`
}

// RefreshClaims is bound to the account id only. Role and tenant are left out
// to limit what a leaked refresh token discloses.
type RefreshClaims struct {
	jwt.RegisteredClaims

	TokenType string `json:"typ"`
}

// TokenService signs and parses access and refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	parser        *jwt.Parser
}

// NewTokenService creates a new TokenService.
//
// Both secrets are required and must differ; violations are configuration errors.
func NewTokenService(accessSecret, refreshSecret, issuer string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, Fail(KindConfigurationError, "token signing secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, Fail(KindConfigurationError, "access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		// Expiry is enforced against the token store, not the exp claim, so that
		// an expired token is reported as expired rather than malformed.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// SignAccessToken creates an access token for principal valid for timeToLive.
func (service *TokenService) SignAccessToken(principal Principal, issuedAt time.Time, timeToLive time.Duration) (string, error) {
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   principal.AccountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		AccountID: principal.AccountID,
		Role:      string(principal.Role),
		TenantID:  principal.TenantID,
		BranchID:  principal.BranchID,
		TokenType: TokenTypeAccess,
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}
	return signedToken, nil
}

// SignRefreshToken creates a refresh token for accountID valid for timeToLive.
func (service *TokenService) SignRefreshToken(accountID string, issuedAt time.Time, timeToLive time.Duration) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		TokenType: TokenTypeRefresh,
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}
	return signedToken, nil
}

// ParseAccessToken checks signature, issuer, and token type of an access token.
//
// Any failure is reported as [KindTokenMalformed] with [ReasonInvalidToken].
func (service *TokenService) ParseAccessToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if err := service.parse(tokenString, claims, service.accessSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess || claims.AccountID == "" {
		return nil, Fail(KindTokenMalformed, ReasonInvalidToken)
	}
	return claims, nil
}

// ParseRefreshToken checks signature, issuer, and token type of a refresh token.
func (service *TokenService) ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.parse(tokenString, claims, service.refreshSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh || claims.Subject == "" {
		return nil, Fail(KindTokenMalformed, ReasonInvalidToken)
	}
	return claims, nil
}

func (service *TokenService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := service.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return FailWith(KindTokenMalformed, ReasonInvalidToken, err)
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer != service.issuer {
		return Fail(KindTokenMalformed, ReasonInvalidToken)
	}
	return nil
}
