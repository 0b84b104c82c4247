package jwt

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeStream  = "stream"

	streamTokenTTL = 5 * time.Minute

	defaultRevokedCacheSize = 10000
	defaultAccessTTL        = 15 * time.Minute
)

type Service interface {
	GenerateAccessToken(userID string, email string, sessionID string) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	GenerateStreamToken(userID string, sessionID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (userID string, sessionID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
	// Entries outlive the access tokens they block; anything older has expired on its own.
	revokedTokens *expirable.LRU[string, time.Time]
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, revokedCacheSize int) Service {
	ttl, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil || ttl <= 0 {
		ttl = defaultAccessTTL
	}
	if revokedCacheSize <= 0 {
		revokedCacheSize = defaultRevokedCacheSize
	}

	return &JWTService{
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              expirable.NewLRU[string, time.Time](revokedCacheSize, nil, ttl),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, sessionID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"sid":     sessionID,
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateRefreshToken carries a random jti so two tokens minted for the same
// user within one second never hash to the same session row.
func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
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
	j.revokedTokens.Add(token, time.Now())
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	return j.revokedTokens.Contains(token)
}

// GenerateStreamToken generates a short-lived token for the access stream
func (j *JWTService) GenerateStreamToken(userID string, sessionID string) (token string, expiresIn int, err error) {
	expiresIn = int(streamTokenTTL.Seconds())
	expiresAt := time.Now().Add(streamTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"sid":     sessionID,
		"type":    TokenTypeStream,
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateStreamToken validates a stream token and returns the user and session it names
func (j *JWTService) ValidateStreamToken(tokenString string) (userID string, sessionID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeStream {
		return "", "", jwt.ErrInvalidJWT()
	}

	userID, ok = stringClaim(token, "user_id")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	sessionID, ok = stringClaim(token, "sid")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	return userID, sessionID, nil
}

func stringClaim(token jwt.Token, name string) (string, bool) {
	v, ok := token.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
