package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	userrepo "github.com/yungbote/edugen-backend/internal/data/repos/user"
	types "github.com/yungbote/edugen-backend/internal/domain"
	"github.com/yungbote/edugen-backend/internal/normalization"
	"github.com/yungbote/edugen-backend/internal/pkg/ctxutil"
	"github.com/yungbote/edugen-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

const minPasswordLen = 8

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, username, email, password string) (*types.User, error)
	LoginUser(ctx context.Context, username, password string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetMe(ctx context.Context) (*types.User, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	userRepo     userrepo.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo userrepo.UserRepo, jwtSecretKey string, accessTTL time.Duration) (AuthService, error) {
	if strings.TrimSpace(jwtSecretKey) == "" {
		return nil, fmt.Errorf("missing JWT secret key")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}, nil
}

func (as *authService) RegisterUser(ctx context.Context, username, email, password string) (*types.User, error) {
	username = strings.TrimSpace(username)
	email = normalization.Lower(email)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", apperr.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", apperr.ErrInvalidArgument)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperr.ErrInvalidArgument, minPasswordLen)
	}

	dbc := dbctx.Background(ctx)
	exists, err := as.userRepo.UsernameOrEmailExists(dbc, username, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username or email already registered", apperr.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &types.User{Username: username, Email: email, Password: string(hash)}
	if _, err := as.userRepo.Create(dbc, []*types.User{u}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("User registered", "user_id", u.ID.String())
	return u, nil
}

func (as *authService) LoginUser(ctx context.Context, username, password string) (string, error) {
	users, err := as.userRepo.GetByUsernames(dbctx.Background(ctx), []string{strings.TrimSpace(username)})
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return "", fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
	}
	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
	}
	return as.generateAccessToken(u)
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid or expired token", apperr.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid user id in token", apperr.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tokenString, UserID: userID}), nil
}

func (as *authService) GetMe(ctx context.Context) (*types.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	users, err := as.userRepo.GetByIDs(dbctx.Background(ctx), []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apperr.ErrNotFound
	}
	return users[0], nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
