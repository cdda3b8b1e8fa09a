package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token is missing user_id or project_id")

// Claims identify the field worker and the project the token is scoped to.
type Claims struct {
	UserID    string
	ProjectID string
}

type Service interface {
	GenerateAccessToken(userID string, projectID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, projectID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":    userID,
		"project_id": projectID,
		"type":       TokenTypeAccess,
		"exp":        expiresAt,
	})
	return tokenString, expiresAt, err
}

// ClaimsFromMap extracts the worker identity from decoded token claims.
func ClaimsFromMap(claims map[string]interface{}) (Claims, error) {
	userID, _ := claims["user_id"].(string)
	projectID, _ := claims["project_id"].(string)
	if userID == "" || projectID == "" {
		return Claims{}, ErrInvalidClaims
	}
	return Claims{UserID: userID, ProjectID: projectID}, nil
}
