package service

import (
	"context"
	"errors"
	"time"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils"
	"noteshare/cmd/internal/utils/apierror"
	"noteshare/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *entity.User) error
	Save(ctx context.Context, user *entity.User) error
	FindToken(ctx context.Context, userID int64) (*entity.Token, error)
	ReplaceToken(ctx context.Context, token *entity.Token) error
	DeleteToken(ctx context.Context, userID int64) error
}

type UserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Tokens   *utils.TokenIssuer
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, tokens *utils.TokenIssuer) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Validate: validate,
		Tokens:   tokens,
	}
}

// Register creates the account and logs it in right away.
func (u *UserService) Register(ctx context.Context, req *contract.CreateUserRequest) (*contract.TokenResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	taken, err := u.UserRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		log.Errorf("failed to check if username %s exists: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}

	if taken {
		return nil, apierror.UsernameTakenError
	}

	hash, err := utils.HashPassword(req.Password1)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		ID:           uid.Generate(),
		Username:     req.Username,
		FirstName:    req.FirstName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.UserRepo.Create(ctx, user)
	if errors.Is(err, entity.ErrUsernameTaken) {
		// Lost a race against a concurrent registration
		return nil, apierror.UsernameTakenError
	}

	if err != nil {
		log.Errorf("failed to create user %s: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}

	token, apierr := u.issueToken(ctx, user)
	if apierr != nil {
		return nil, apierr
	}
	return &contract.TokenResponse{Token: token, User: toUserResponse(user)}, nil
}

// Login hands out the token currently stored for the user, issuing a new
// one when there is none or it expired.
func (u *UserService) Login(ctx context.Context, req *contract.UserLoginRequest) (*contract.TokenResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.Username, err)
		return nil, apierror.InternalServerError
	}

	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apierror.CredentialsMismatchError
	}

	current, err := u.UserRepo.FindToken(ctx, user.ID)
	if err != nil {
		log.Errorf("failed to fetch token of user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	if current != nil {
		if data, verr := u.Tokens.Validate(current.Value); verr == nil && data.ID == current.TokenID {
			return &contract.TokenResponse{Token: current.Value, User: toUserResponse(user)}, nil
		}
	}

	token, apierr := u.issueToken(ctx, user)
	if apierr != nil {
		return nil, apierr
	}
	return &contract.TokenResponse{Token: token, User: toUserResponse(user)}, nil
}

func (u *UserService) Logout(ctx context.Context, actor *entity.User) apierror.ErrorResponse {
	if actor == nil {
		return apierror.UnauthorizedError
	}

	if err := u.UserRepo.DeleteToken(ctx, actor.ID); err != nil {
		log.Errorf("failed to revoke token of user %d: %v", actor.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// RegenerateToken invalidates every token issued to actor so far.
func (u *UserService) RegenerateToken(ctx context.Context, actor *entity.User) (*contract.TokenResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	token, apierr := u.issueToken(ctx, actor)
	if apierr != nil {
		return nil, apierr
	}
	return &contract.TokenResponse{Token: token}, nil
}

// UpdateProfile requires the current password. A wrong one logs the
// actor out before failing.
func (u *UserService) UpdateProfile(ctx context.Context, actor *entity.User, req *contract.UpdateProfileRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if !utils.CheckPassword(actor.PasswordHash, req.Password) {
		if err := u.UserRepo.DeleteToken(ctx, actor.ID); err != nil {
			log.Errorf("failed to revoke token of user %d: %v", actor.ID, err)
			return nil, apierror.InternalServerError
		}
		return nil, apierror.WrongOldPasswordError
	}

	dirty := false
	if req.FirstName != nil && *req.FirstName != actor.FirstName {
		actor.FirstName = *req.FirstName
		dirty = true
	}
	if req.Email != nil && *req.Email != actor.Email {
		actor.Email = *req.Email
		dirty = true
	}
	if req.NewPassword != nil {
		hash, err := utils.HashPassword(*req.NewPassword)
		if err != nil {
			log.Errorf("failed to hash password: %v", err)
			return nil, apierror.InternalServerError
		}
		actor.PasswordHash = hash
		dirty = true
	}

	if dirty {
		actor.UpdatedAt = utils.NowUTC()
		if err := u.UserRepo.Save(ctx, actor); err != nil {
			log.Errorf("failed to update user %d: %v", actor.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toUserResponse(actor), nil
}

// AuthenticateToken resolves a bearer token to its user. Tokens replaced by
// a later login, regeneration or logout are rejected.
func (u *UserService) AuthenticateToken(ctx context.Context, raw string) (*entity.User, apierror.ErrorResponse) {
	data, err := u.Tokens.Validate(raw)
	if err != nil {
		return nil, apierror.InvalidAuthTokenError
	}

	user, err := u.UserRepo.FindByUsername(ctx, data.Sub)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", data.Sub, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.InvalidAuthTokenError
	}

	current, err := u.UserRepo.FindToken(ctx, user.ID)
	if err != nil {
		log.Errorf("failed to fetch token of user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	if current == nil || current.TokenID != data.ID {
		return nil, apierror.InvalidAuthTokenError
	}
	return user, nil
}

func (u *UserService) AuthenticateBasic(ctx context.Context, username, password string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", username, err)
		return nil, apierror.InternalServerError
	}

	if user == nil || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apierror.InvalidBasicAuthError
	}
	return user, nil
}

func (u *UserService) issueToken(ctx context.Context, user *entity.User) (string, apierror.ErrorResponse) {
	tokenID := uuid.NewString()
	signed, err := u.Tokens.Issue(user.Username, tokenID, time.Now())
	if err != nil {
		log.Errorf("failed to sign token for user %d: %v", user.ID, err)
		return "", apierror.InternalServerError
	}

	token := &entity.Token{
		UserID:    user.ID,
		TokenID:   tokenID,
		Value:     signed,
		CreatedAt: utils.NowUTC(),
	}

	if err = u.UserRepo.ReplaceToken(ctx, token); err != nil {
		log.Errorf("failed to store token for user %d: %v", user.ID, err)
		return "", apierror.InternalServerError
	}
	return signed, nil
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		Email:     user.Email,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
	}
}
