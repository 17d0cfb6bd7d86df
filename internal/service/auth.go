package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// dummyHash is compared against when the email is unknown so that both
// rejection paths spend a bcrypt comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	storeTimeout time.Duration
	logger       *logger.Logger

	// writeMu serializes user-table writes.
	writeMu sync.Mutex
	now     func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	storeTimeout time.Duration,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		storeTimeout: storeTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

func (a *Auth) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.storeTimeout)
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password both yield model.ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (string, model.User, error) {
	a.logger.Debug("Auth service: processing login",
		"email", email)

	storeCtx, cancel := a.storeContext(ctx)
	defer cancel()

	user, err := a.userStore.GetByEmail(storeCtx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.Verify(dummyHash, password)
		a.logger.Info("Auth service: login rejected",
			"email", email)
		return "", model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", model.User{}, fmt.Errorf("%w: failed to get user by email: %v", model.ErrPersistence, err)
	}

	if !a.hasher.Verify(user.PasswordHash, password) {
		a.logger.Info("Auth service: login rejected",
			"email", email)
		return "", model.User{}, model.ErrInvalidCredentials
	}

	token, _, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return "", model.User{}, err
	}

	a.logger.Info("Auth service: login completed",
		"user_id", user.ID)

	return token, user, nil
}

// Register creates a new account. A taken email yields model.ErrEmailTaken.
func (a *Auth) Register(ctx context.Context, email, password, name string) (model.User, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	user, created, err := a.createLocked(ctx, email, password, name)
	if err != nil {
		return model.User{}, err
	}
	if !created {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.User{}, model.ErrEmailTaken
	}

	a.logger.Info("Auth service: registration completed",
		"user_id", user.ID)

	return user, nil
}

// EnsureUser creates the account unless one with the email already exists.
func (a *Auth) EnsureUser(ctx context.Context, email, password, name string) (model.User, error) {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	user, created, err := a.createLocked(ctx, email, password, name)
	if err != nil {
		return model.User{}, err
	}
	if created {
		a.logger.Info("Auth service: seeded user",
			"user_id", user.ID,
			"email", email)
	}

	return user, nil
}

func (a *Auth) createLocked(ctx context.Context, email, password, name string) (model.User, bool, error) {
	storeCtx, cancel := a.storeContext(ctx)
	defer cancel()

	existing, err := a.userStore.GetByEmail(storeCtx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, false, fmt.Errorf("%w: failed to get user by email: %v", model.ErrPersistence, err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    a.now().UTC(),
	}

	saved, err := a.userStore.Create(storeCtx, user)
	if errors.Is(err, model.ErrEmailTaken) {
		return model.User{}, false, model.ErrEmailTaken
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, false, wrapPersistence("failed to create user", err)
	}

	return saved, true, nil
}

func wrapPersistence(msg string, err error) error {
	if errors.Is(err, model.ErrPersistence) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrPersistence, msg, err)
}
