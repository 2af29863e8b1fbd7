// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"miniblog/config"
	deliverycontext "miniblog/internal/delivery/context"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/domain/service"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	minPasswordLength    = 8
	maxPasswordLength    = 72 // bcrypt ignores anything longer
	minDisplayNameLength = 2
	maxDisplayNameLength = 50

	// timingPassword is hashed once so unknown emails cost the same bcrypt work as wrong passwords.
	timingPassword = "miniblog-timing-equalizer"
)

// Operation labels for duration metrics.
const (
	opLogin   = "login"
	opRefresh = "refresh"
	opLogout  = "logout"
)

// errTokenReplayed marks step 4 of the refresh flow so the reuse policy runs after the transaction rolls back.
var errTokenReplayed = errors.New("revoked refresh token presented")

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	publisher        service.EventPublisher
	metrics          service.SessionMetrics
	reusePolicy      string
	logger           *slog.Logger
	now              func() time.Time

	timingHashOnce sync.Once
	timingHash     string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Publisher        service.EventPublisher
	Metrics          service.SessionMetrics
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	reusePolicy := config.ReusePolicyReject
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.ReusePolicy != "" {
		reusePolicy = params.Config.Auth.ReusePolicy
	}

	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		publisher:        params.Publisher,
		metrics:          params.Metrics,
		reusePolicy:      reusePolicy,
		logger:           params.Logger,
		now:              time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new identity with role USER.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.UserOutput, error) {
	email := strings.TrimSpace(input.Email)
	displayName := strings.TrimSpace(input.DisplayName)
	if err := validateRegistration(email, input.Password, displayName); err != nil {
		return nil, err
	}

	if _, err := srv.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, domainerrors.ErrEmailAlreadyInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to look up email")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         entity.RoleUser,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can still win the unique index.
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, domainerrors.ErrEmailAlreadyInUse
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User registered", slog.String("userID", user.ID.String()))

	return usecase.NewUserOutput(user), nil
}

// Login verifies credentials and starts a fresh rotation chain.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	start := srv.now()
	output, err := srv.login(ctx, input)
	srv.metrics.ObserveDuration(opLogin, srv.now().Sub(start))
	srv.metrics.ObserveLogin(outcomeOf(err))

	return output, err
}

func (srv *authService) login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to find user")
		}
		// Spend the same bcrypt work as a real comparison before answering.
		srv.hasher.Check(input.Password, srv.dummyHash())

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	accessToken, err := srv.tokenService.IssueAccessToken(user.Identity())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := srv.issueRefreshToken(ctx, srv.refreshTokenRepo, user.ID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User logged in", slog.String("userID", user.ID.String()))

	return &usecase.LoginOutput{
		TokenPair: usecase.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		User:      usecase.NewUserOutput(user),
	}, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token is revoked in the same
// transaction that persists its replacement, so two concurrent calls can never both succeed.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	start := srv.now()
	pair, err := srv.refresh(ctx, refreshToken)
	srv.metrics.ObserveDuration(opRefresh, srv.now().Sub(start))
	srv.metrics.ObserveRefresh(outcomeOf(err))

	return pair, err
}

func (srv *authService) refresh(ctx context.Context, presented string) (*usecase.TokenPair, error) {
	claims, err := srv.tokenService.ParseRefreshToken(presented)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken
	}

	now := srv.now()
	var replayed *entity.RefreshToken
	var newToken string

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		tokenRepo := repoFactory.RefreshTokenRepo()

		record, err := tokenRepo.FindByTokenID(ctx, claims.TokenID)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrInvalidToken
			}

			return errors.Wrap(err, "failed to find refresh token")
		}

		if record.IsRevoked() {
			replayed = record

			return errTokenReplayed
		}
		if record.IsExpired(now) {
			return domainerrors.ErrTokenExpired
		}
		if record.UserID != claims.UserID {
			return domainerrors.ErrInvalidToken
		}
		if subtle.ConstantTimeCompare([]byte(srv.tokenService.HashToken(presented)), []byte(record.TokenDigest)) != 1 {
			return domainerrors.ErrInvalidToken
		}

		if err := tokenRepo.RevokeIfActive(ctx, record.TokenID, now); err != nil {
			switch {
			case errors.Is(err, repository.ErrRefreshTokenAlreadyRevoked):
				// Lost the race against a concurrent refresh of the same token.
				return domainerrors.ErrTokenRevoked
			case errors.Is(err, repository.ErrRefreshTokenNotFound):
				return domainerrors.ErrInvalidToken
			default:
				return errors.Wrap(err, "failed to revoke refresh token")
			}
		}

		newToken, err = srv.issueRefreshToken(ctx, tokenRepo, record.UserID)

		return err
	})
	if err != nil {
		if errors.Is(err, errTokenReplayed) {
			srv.handleReuse(ctx, replayed)

			return nil, domainerrors.ErrTokenRevoked
		}

		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrIdentityNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	accessToken, err := srv.tokenService.IssueAccessToken(user.Identity())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	srv.log(ctx).Debug("Refresh token rotated", slog.String("userID", user.ID.String()))

	return &usecase.TokenPair{AccessToken: accessToken, RefreshToken: newToken}, nil
}

// handleReuse applies the configured replay policy and reports the event. Failures are logged only.
func (srv *authService) handleReuse(ctx context.Context, record *entity.RefreshToken) {
	var revoked int64
	if srv.reusePolicy == config.ReusePolicyRevokeAll {
		count, err := srv.refreshTokenRepo.RevokeAllByUserID(ctx, record.UserID, srv.now())
		if err != nil {
			srv.log(ctx).Error("Failed to revoke sessions after refresh token reuse",
				slog.String("userID", record.UserID.String()),
				slog.Any("error", err),
			)
		}
		revoked = count
	}

	srv.metrics.ObserveReuse(srv.reusePolicy)
	srv.log(ctx).Warn("Refresh token reuse detected",
		slog.String("userID", record.UserID.String()),
		slog.String("tokenID", record.TokenID.String()),
		slog.String("policy", srv.reusePolicy),
		slog.Int64("revokedCount", revoked),
	)

	event := &service.SecurityEvent{
		Type:         service.SecurityEventRefreshTokenReuse,
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		UserID:       record.UserID.String(),
		TokenID:      record.TokenID.String(),
		Policy:       srv.reusePolicy,
		RevokedCount: revoked,
		DetectedAt:   srv.now(),
	}
	if err := srv.publisher.PublishSecurityEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish security event", slog.Any("error", err))
	}
}

// Logout revokes the presented refresh token. Nothing it encounters is reported to the caller.
func (srv *authService) Logout(ctx context.Context, refreshToken string) {
	start := srv.now()
	defer func() {
		srv.metrics.ObserveDuration(opLogout, srv.now().Sub(start))
		srv.metrics.ObserveLogout()
	}()

	if refreshToken == "" {
		return
	}

	claims, err := srv.tokenService.ParseRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Debug("Logout with unverifiable refresh token, nothing to revoke")

		return
	}

	err = srv.refreshTokenRepo.RevokeIfActive(ctx, claims.TokenID, srv.now())
	if err != nil && !errors.IsAny(err, repository.ErrRefreshTokenAlreadyRevoked, repository.ErrRefreshTokenNotFound) {
		srv.log(ctx).Warn("Failed to revoke refresh token on logout",
			slog.String("tokenID", claims.TokenID.String()),
			slog.Any("error", err),
		)
	}
}

// LogoutAll revokes every live session of the caller.
func (srv *authService) LogoutAll(ctx context.Context, identity entity.Identity) (int64, error) {
	count, err := srv.refreshTokenRepo.RevokeAllByUserID(ctx, identity.UserID, srv.now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to revoke sessions")
	}

	srv.log(ctx).Info("All sessions revoked",
		slog.String("userID", identity.UserID.String()),
		slog.Int64("count", count),
	)

	return count, nil
}

// ListSessions returns the caller's live sessions without their digests.
func (srv *authService) ListSessions(ctx context.Context, identity entity.Identity) ([]entity.SessionInfo, error) {
	records, err := srv.refreshTokenRepo.FindActiveByUserID(ctx, identity.UserID, srv.now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	sessions := make([]entity.SessionInfo, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, entity.SessionInfo{
			ID:        record.ID,
			CreatedAt: record.CreatedAt,
			ExpiresAt: record.ExpiresAt,
		})
	}

	return sessions, nil
}

// VerifyAccessToken maps every verification failure to Unauthorized.
func (srv *authService) VerifyAccessToken(accessToken string) (*entity.Identity, error) {
	identity, err := srv.tokenService.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	return identity, nil
}

func (srv *authService) IssueAccessToken(identity entity.Identity) (string, error) {
	token, err := srv.tokenService.IssueAccessToken(identity)
	if err != nil {
		return "", errors.Wrap(err, "failed to issue access token")
	}

	return token, nil
}

// issueRefreshToken signs a new refresh token and persists its record through repo.
func (srv *authService) issueRefreshToken(ctx context.Context, repo repository.RefreshTokenRepository, userID uuid.UUID) (string, error) {
	issued, err := srv.tokenService.IssueRefreshToken(userID)
	if err != nil {
		return "", errors.Wrap(err, "failed to issue refresh token")
	}

	record := &entity.RefreshToken{
		TokenID:     issued.TokenID,
		UserID:      userID,
		TokenDigest: issued.Digest,
		ExpiresAt:   issued.ExpiresAt,
	}
	if err := repo.Create(ctx, record); err != nil {
		return "", errors.Wrap(err, "failed to store refresh token")
	}

	return issued.Token, nil
}

func (srv *authService) dummyHash() string {
	srv.timingHashOnce.Do(func() {
		hash, err := srv.hasher.Hash(timingPassword)
		if err == nil {
			srv.timingHash = hash
		}
	})

	return srv.timingHash
}

func validateRegistration(email, password, displayName string) error {
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return domainerrors.ErrValidationFailed.WithDetails("email must be a valid address")
	case utf8.RuneCountInString(password) < minPasswordLength || len(password) > maxPasswordLength:
		return domainerrors.ErrValidationFailed.WithDetails("password must be 8 to 72 characters")
	case utf8.RuneCountInString(displayName) < minDisplayNameLength || utf8.RuneCountInString(displayName) > maxDisplayNameLength:
		return domainerrors.ErrValidationFailed.WithDetails("displayName must be 2 to 50 characters")
	}

	return nil
}

func outcomeOf(err error) string {
	if err != nil {
		return service.OutcomeFailure
	}

	return service.OutcomeSuccess
}
