package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour

	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

func SignAccessToken(userID uint, role string, secret []byte) (string, time.Time, error) {
	exp := time.Now().Add(AccessTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	return signed, exp, err
}

// SignRefreshToken returns the token, its expiry and the JTI under which the
// token is persisted for revocation.
func SignRefreshToken(userID uint, role string, secret []byte) (string, time.Time, string, error) {
	exp := time.Now().Add(RefreshTTL)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"typ":  "refresh",
		"jti":  jti,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	return signed, exp, jti, err
}

func ParseToken(raw string, secret []byte) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func ParseRefreshToken(raw string, secret []byte) (jwt.MapClaims, error) {
	claims, err := ParseToken(raw, secret)
	if err != nil {
		return nil, err
	}
	if typ, ok := claims["typ"].(string); !ok || typ != "refresh" {
		return nil, fmt.Errorf("not a refresh token")
	}
	return claims, nil
}

func SubjectID(claims jwt.MapClaims) (uint, error) {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid subject claim")
	}
	return uint(sub), nil
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
