package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/auth"
	"github.com/dmitrijs2005/physiokeeper/internal/server/config"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
	"github.com/dmitrijs2005/physiokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/physiokeeper/internal/timex"
)

// Assignment defaults for exercises added at registration.
const (
	defaultSets = 3
	defaultReps = 10
)

// resetInterval is how long completions last before the daily reset.
const resetInterval = 24 * time.Hour

const (
	msgPasswordsRequired = "Both current and new password are required"
	msgPasswordIncorrect = "Current password is incorrect"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

// UserService handles registration, login, token refresh and profile
// management.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
	dummyHash                    []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("physiokeeper"), hashCost)
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
		dummyHash:                    dummy,
	}
}

// Register validates req, creates the user with the exercises prescribed for
// their injury type and signs them in.
func (s *UserService) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenPair, error) {
	if err := s.validateRegistration(ctx, req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	var pair *api.TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			UserName:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			DateOfBirth:  req.DateOfBirth,
			InjuryTypeID: req.InjuryType,
			LastReset:    s.now(),
			CreatedAt:    s.now().UTC(),
		})
		if err != nil {
			return err
		}

		if err := s.assignTreatment(ctx, tx, user); err != nil {
			return err
		}

		pair, err = s.generateTokenPair(ctx, user.ID, tx)
		return err
	})
	if errors.Is(err, common.ErrConflict) {
		return nil, usernameTaken()
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Login verifies the password and returns a new token pair. Unknown users
// and wrong passwords both yield common.ErrUnauthorized. A successful login
// starts a new exercise day when the last one is over.
func (s *UserService) Login(ctx context.Context, userName, password string) (*api.TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrUnauthorized
	}

	var pair *api.TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.resetIfDue(ctx, tx, user); err != nil {
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user.ID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh pair. The presented token is unusable afterwards.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*api.TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *api.TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate maps an access token to its user id.
func (s *UserService) Authenticate(accessToken string) (int64, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

// PurgeExpiredTokens drops refresh tokens that can no longer be used.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of u.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, u api.ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if u.Email != nil {
		if !emailPattern.MatchString(*u.Email) {
			verr.add("email", "Enter a valid email address.")
		}
		user.Email = *u.Email
	}
	if u.FirstName != nil {
		user.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		user.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.DateOfBirth != nil {
		if !validDate(*u.DateOfBirth) {
			verr.add("date_of_birth", msgDateFormat)
		}
		user.DateOfBirth = *u.DateOfBirth
	}
	if u.InjuryType != nil {
		if err := s.checkInjuryType(ctx, *u.InjuryType, verr); err != nil {
			return nil, err
		}
		user.InjuryTypeID = *u.InjuryType
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return invalid(msgPasswordsRequired)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(current)) != nil {
		return invalid(msgPasswordIncorrect)
	}
	if msg := passwordProblem(next); msg != "" {
		return &ValidationError{Fields: map[string][]string{"new_password": {msg}}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), hashCost)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return repo.UpdatePassword(ctx, userID, hash)
}

// --- helpers below ---

const msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

func (s *UserService) validateRegistration(ctx context.Context, req api.RegisterRequest) error {
	verr := &ValidationError{}

	switch {
	case req.Username == "":
		verr.add("username", msgRequired)
	case len(req.Username) > 150 || !usernamePattern.MatchString(req.Username):
		verr.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	default:
		_, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, req.Username)
		if err == nil {
			return usernameTaken()
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}
	}

	switch {
	case req.Email == "":
		verr.add("email", msgRequired)
	case !emailPattern.MatchString(req.Email):
		verr.add("email", "Enter a valid email address.")
	}

	if req.Password == "" {
		verr.add("password", msgRequired)
	} else if msg := passwordProblem(req.Password); msg != "" {
		verr.add("password", msg)
	}

	if req.DateOfBirth != "" && !validDate(req.DateOfBirth) {
		verr.add("date_of_birth", msgDateFormat)
	}
	if req.InjuryType != 0 {
		if err := s.checkInjuryType(ctx, req.InjuryType, verr); err != nil {
			return err
		}
	}

	return verr.orNil()
}

func (s *UserService) checkInjuryType(ctx context.Context, id int64, verr *ValidationError) error {
	_, err := s.repomanager.Catalogue(s.db).GetInjuryType(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		verr.add("injury_type", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		return nil
	}
	return err
}

func (s *UserService) assignTreatment(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	if user.InjuryTypeID == 0 {
		return nil
	}
	it, err := s.repomanager.Catalogue(tx).GetInjuryType(ctx, user.InjuryTypeID)
	if err != nil {
		return err
	}
	repo := s.repomanager.UserExercises(tx)
	for _, exerciseID := range it.Treatment {
		if _, err := repo.Create(ctx, &models.UserExercise{
			UserID:     user.ID,
			ExerciseID: exerciseID,
			Sets:       defaultSets,
			Reps:       defaultReps,
			IsActive:   true,
		}); err != nil {
			return err
		}
	}
	return nil
}

// resetIfDue clears the previous day's completions once resetInterval has
// passed since the last reset.
func (s *UserService) resetIfDue(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	now := s.now()
	if !user.LastReset.IsZero() && now.Sub(user.LastReset) < resetInterval {
		return nil
	}
	if err := s.repomanager.UserExercises(tx).ResetDaily(ctx, user.ID); err != nil {
		return err
	}
	return s.repomanager.Users(tx).SetLastReset(ctx, user.ID, now)
}

func (s *UserService) generateAccessToken(userID int64) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID int64, tx dbx.DBTX) (*api.TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return &api.TokenPair{Access: access, Refresh: refresh}, nil
}

func usernameTaken() error {
	return &ValidationError{Fields: map[string][]string{"username": {"A user with that username already exists."}}}
}

func passwordProblem(p string) string {
	if len(p) < 8 {
		return "This password is too short. It must contain at least 8 characters."
	}
	if strings.Trim(p, "0123456789") == "" {
		return "This password is entirely numeric."
	}
	return ""
}

func validDate(s string) bool {
	_, err := time.Parse(timex.DateLayout, s)
	return err == nil
}
