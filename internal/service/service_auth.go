package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zpasskit/zpass/internal/crypto"
	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/store"
	"github.com/zpasskit/zpass/internal/utils"
	"github.com/zpasskit/zpass/models"
)

// AuthConfig carries the security material the auth service needs.
type AuthConfig struct {
	// CredentialHashKey peppers the stored credential hashes.
	CredentialHashKey string
	// TokenSignKey signs session JWTs.
	TokenSignKey string
	// TokenIssuer is the "iss" claim of issued tokens.
	TokenIssuer string
	// TokenDuration is the session token lifetime.
	TokenDuration time.Duration
}

type authService struct {
	cfg    AuthConfig
	users  store.UserRepository
	logger *logger.Logger
}

// NewAuthService constructs the server-side [AuthService].
func NewAuthService(cfg AuthConfig, users store.UserRepository, logger *logger.Logger) AuthService {
	logger.Debug().Msg("creating auth service")
	return &authService{
		cfg:    cfg,
		users:  users,
		logger: logger,
	}
}

// RegisterUser implements [AuthService]. The incoming credential is already
// a one-way derivative of the master secret; the HMAC pepper on top means a
// stolen database row is useless even against an offline brute force of
// weak master passwords.
func (s *authService) RegisterUser(ctx context.Context, login, authCredential string, salt []byte) (models.User, error) {
	log := logger.FromContext(ctx)

	if login == "" || authCredential == "" || len(salt) != crypto.SaltLength {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Login:          login,
		AuthCredential: utils.HashCredential(authCredential, s.cfg.CredentialHashKey),
		EncryptionSalt: salt,
	})
	if err != nil {
		if errors.Is(err, store.ErrLoginAlreadyExists) {
			return models.User{}, err
		}
		log.Err(err).Str("func", "*authService.RegisterUser").Msg("error creating user")
		return models.User{}, fmt.Errorf("error creating user: %w", err)
	}

	log.Info().Str("login", login).Msg("user registered")
	return user, nil
}

// AccountParams implements [AuthService]. The salt is public by design: it
// only randomizes key derivation and grants nothing without the master
// secret.
func (s *authService) AccountParams(ctx context.Context, login string) ([]byte, error) {
	if login == "" {
		return nil, ErrInvalidDataProvided
	}

	user, err := s.users.FindUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	return user.EncryptionSalt, nil
}

// Login implements [AuthService].
func (s *authService) Login(ctx context.Context, login, authCredential string) (models.Token, models.User, error) {
	log := logger.FromContext(ctx)

	if login == "" || authCredential == "" {
		return models.Token{}, models.User{}, ErrInvalidDataProvided
	}

	user, err := s.users.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Token{}, models.User{}, ErrWrongCredentials
		}
		log.Err(err).Str("func", "*authService.Login").Msg("error finding user")
		return models.Token{}, models.User{}, fmt.Errorf("error finding user: %w", err)
	}

	hashed := utils.HashCredential(authCredential, s.cfg.CredentialHashKey)
	if !utils.CredentialsEqual(hashed, user.AuthCredential) {
		return models.Token{}, models.User{}, ErrWrongCredentials
	}

	token, err := utils.GenerateJWTToken(s.cfg.TokenIssuer, user.UserID, s.cfg.TokenDuration, s.cfg.TokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("error generating token")
		return models.Token{}, models.User{}, ErrTokenCreationFailed
	}

	user.AuthCredential = ""
	log.Info().Str("login", login).Msg("user logged in")
	return token, user, nil
}

// ValidateToken implements [AuthService].
func (s *authService) ValidateToken(_ context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.cfg.TokenSignKey, s.cfg.TokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
