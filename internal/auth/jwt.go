package auth

import (
	"fmt"
	"grievance/backend/internal/models"
	"grievance/backend/internal/session"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager issues and validates the HS256 session tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// sessionClaims extends the registered claims with the principal's role and,
// for officials, their department.
type sessionClaims struct {
	jwt.RegisteredClaims
	Name       string      `json:"name,omitempty"`
	Role       models.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}

// Issue signs a token for user and returns it with the session it encodes.
func (m *JWTManager) Issue(user *models.User) (string, session.Session, error) {
	now := m.now()
	sess := session.Session{
		UserID:     user.ID,
		Name:       user.Name,
		Role:       user.Role,
		Department: user.Department,
		TokenID:    uuid.New().String(),
		ExpiresAt:  now.Add(m.ttl).Truncate(time.Second),
	}
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			Issuer:    m.issuer,
			ID:        sess.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Name:       sess.Name,
		Role:       sess.Role,
		Department: sess.Department,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", session.Session{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, sess, nil
}

// Parse validates signature, issuer and expiry and returns the session.
func (m *JWTManager) Parse(tokenString string) (session.Session, error) {
	if tokenString == "" {
		return session.Session{}, fmt.Errorf("token is empty")
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return session.Session{}, fmt.Errorf("parse token: %w", err)
	}

	if claims.Subject == "" || claims.ID == "" || !claims.Role.Valid() {
		return session.Session{}, fmt.Errorf("invalid token claims")
	}
	if claims.Role == models.RoleDepartmentOfficial && claims.Department == "" {
		return session.Session{}, fmt.Errorf("official token without department")
	}

	return session.Session{
		UserID:     claims.Subject,
		Name:       claims.Name,
		Role:       claims.Role,
		Department: claims.Department,
		TokenID:    claims.ID,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}
