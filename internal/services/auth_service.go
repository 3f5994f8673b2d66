package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/config"
	"github.com/halcyonlabs/argus/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email already registered")
)

const tokenTTL = 24 * time.Hour

// Claims carries the authenticated identity through the request: user, role
// and, critically, the organization every query is scoped to.
type Claims struct {
	UserID         uint   `json:"user_id"`
	OrganizationID uint   `json:"org_id"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db     *gorm.DB
	secret []byte
}

func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, secret: []byte(cfg.JWTSecret)}
}

// Login verifies credentials, stamps last_login, records an authentication
// event and returns a signed token.
func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !user.CheckPassword(password) {
		s.recordLoginEvent(&user, false)
		return "", ErrInvalidCredentials
	}
	if !user.Active {
		return "", ErrAccountDisabled
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.db.Save(&user).Error; err != nil {
		return "", err
	}
	s.recordLoginEvent(&user, true)

	return s.issueToken(&user)
}

func (s *AuthService) recordLoginEvent(user *models.User, success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	event := models.SecurityEvent{
		EventType:      "authentication",
		Source:         "api",
		Severity:       "info",
		Username:       user.Email,
		Action:         "login",
		Status:         status,
		OrganizationID: user.OrganizationID,
	}
	if !success {
		event.Severity = "medium"
	}
	// Audit log writes never block login
	_ = s.db.Create(&event).Error
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Register creates a new organization with its first (admin) user.
func (s *AuthService) Register(email, username, password, orgName string) (*models.User, error) {
	email = strings.ToLower(email)

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		org := models.Organization{
			Name:               orgName,
			SubscriptionPlan:   "free",
			SubscriptionStatus: "trial",
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		user = models.User{
			Email:          email,
			Username:       username,
			Role:           "admin",
			Active:         true,
			OrganizationID: org.ID,
		}
		if err := user.SetPassword(password); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by primary key.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the old password before setting the new one.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.db.Save(user).Error
}
