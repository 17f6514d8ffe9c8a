package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vozgestora/internal/cache"
	"vozgestora/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultManagerName = "Gestor Municipal"

// AuthService issues and validates dashboard sessions
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
	sessions  cache.SessionCache
	directory *DirectoryService
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(jwtSecret string, ttl time.Duration, sessions cache.SessionCache, directory *DirectoryService, logger *zap.Logger) *AuthService {
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		sessions:  sessions,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

// Login opens a session for the selected municipality. Role defaults to PREFEITO.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if req.Role == "" {
		req.Role = model.RolePrefeito
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if req.Department != "" && !req.Department.Valid() {
		return nil, ErrInvalidDepartment
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultManagerName
	}

	user := model.User{
		ID:             "user-" + req.MunicipalityID,
		Name:           name,
		Role:           req.Role,
		MunicipalityID: req.MunicipalityID,
		Department:     req.Department,
	}
	return s.open(ctx, user)
}

// Switch re-issues the session of user for another municipality
func (s *AuthService) Switch(ctx context.Context, sessionID string, user model.User, municipalityID string) (*model.LoginResponse, error) {
	if _, err := s.directory.Get(municipalityID); err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	user.ID = "user-" + municipalityID
	user.MunicipalityID = municipalityID
	return s.open(ctx, user)
}

func (s *AuthService) open(ctx context.Context, user model.User) (*model.LoginResponse, error) {
	m, err := s.directory.Get(user.MunicipalityID)
	if err != nil {
		return nil, err
	}

	session := &model.Session{ID: uuid.New().String(), User: user}
	if err := s.sessions.Set(ctx, session, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.generateToken(session)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session opened",
		zap.String("user", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("municipality", m.ID),
	)
	return &model.LoginResponse{
		Token:        token,
		User:         user,
		Municipality: m,
		Tabs:         user.Role.VisibleTabs(),
	}, nil
}

func (s *AuthService) generateToken(session *model.Session) (string, error) {
	now := s.now()
	claims := model.SessionClaims{
		SessionID:      session.ID,
		UserID:         session.User.ID,
		Role:           session.User.Role,
		MunicipalityID: session.User.MunicipalityID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// Validate checks the token signature and that its session is still live
func (s *AuthService) Validate(ctx context.Context, tokenString string) (*model.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("%w: session closed", ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Logout closes the session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
