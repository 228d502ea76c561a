package jwt

import (
	"net/http"
	"sync"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(subjectID string, email string, employeeCode string, role auth.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(subjectID string, role auth.Role) (token string, expiresAt int64, err error)
	DecodeRefreshToken(tokenString string) (subjectID string, role auth.Role, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
	revokedTokens              map[string]int64
	mu                         sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(subjectID string, email string, employeeCode string, role auth.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"sub":   subjectID,
		"email": email,
		"role":  string(role),
		"type":  "access",
		"exp":   expiresAt,
	}
	if employeeCode != "" {
		claims["employee_id"] = employeeCode
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(subjectID string, role auth.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  subjectID,
		"role": string(role),
		"exp":  expiresAt,
		"type": "refresh",
	})
	return tokenString, expiresAt, err
}

// DecodeRefreshToken validates a refresh token and returns its subject.
func (j *JWTService) DecodeRefreshToken(tokenString string) (subjectID string, role auth.Role, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return "", "", jwt.ErrInvalidJWT()
	}

	subjectID = token.Subject()
	if subjectID == "" {
		return "", "", jwt.ErrInvalidJWT()
	}

	roleVal, ok := token.Get("role")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	roleStr, ok := roleVal.(string)
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	return subjectID, auth.Role(roleStr), nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
