package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;not null;default:editor" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string   `json:"name" binding:"required,max=255"`
	Email    string   `json:"email" binding:"required,email,max=255"`
	Password string   `json:"password" binding:"omitempty,min=8,max=255"`
	Role     UserRole `json:"role" binding:"required,oneof=super_admin admin editor"`
}

type LoginInfo struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCannotDeleteSelf   = errors.New("users cannot delete themselves")
)

/*
caches:
	User:$id
*/

func (user User) RemoveInstanceRedis() error {
	return utils.RemoveRedisItem[User](user.ID)
}

// validate input for both create & update. (id = 0 for create)
func (input *NewUser) validate(ctx context.Context, id int) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	verr := utils.NewValidationError()
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(input.Email) {
		verr.Add("email", "O campo e-mail deve ser um endereço de e-mail válido.")
	} else {
		dup, err := utils.IsDuplicate[User](ctx, "email", input.Email, id)
		if err != nil {
			return err
		}
		if dup {
			verr.Add("email", "O campo e-mail já está sendo utilizado.")
		}
	}
	if id == 0 && input.Password == "" {
		verr.Add("password", "O campo senha é obrigatório.")
	}
	return verr.OrNil()
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     input.Role,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser keeps the current password when input.Password is empty.
func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(input.Name)
	user.Email = input.Email
	user.Role = input.Role
	if input.Password != "" {
		hashedPassword, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashedPassword)
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		config.LogError(config.GetLogger(), "User", "UpdateUser", "clear user cache", user.ID, err)
	}
	return user, nil
}

// DeleteUser removes the user unless actorId is the same user.
func DeleteUser(ctx context.Context, actorId int, id int) (*User, error) {
	if actorId == id {
		return nil, ErrCannotDeleteSelf
	}
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(user).Error; err != nil {
		return nil, err
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		config.LogError(config.GetLogger(), "User", "DeleteUser", "clear user cache", user.ID, err)
	}
	return user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id)
}

// GetCachedUser reads the user from redis, falling back to the database and
// caching the result.
func GetCachedUser(ctx context.Context, id int) (*User, error) {
	cached, err := utils.RetrieveRedis[User](id)
	if err != nil {
		config.LogError(config.GetLogger(), "User", "GetCachedUser", "read user cache", id, err)
	}
	if cached != nil {
		return cached, nil
	}
	user, err := GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	// Password is tagged json:"-" so it never reaches the cache
	if err := utils.StoreRedis[User](user, id); err != nil {
		config.LogError(config.GetLogger(), "User", "GetCachedUser", "write user cache", id, err)
	}
	return user, nil
}

func ListUsers(ctx context.Context) ([]*User, error) {
	db := config.GetDB()
	var results []*User
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	claims, err := utils.ParseClaims(token)
	if err != nil {
		return nil, err
	}
	return &LoginInfo{
		Token:     token,
		TokenType: "Bearer",
		User:      &user,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	user, err := GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, utils.FieldError("old_password", "A senha atual está incorreta.")
	}
	if len(newPassword) < 8 {
		return nil, utils.FieldError("password", "O campo senha deve ter pelo menos 8 caracteres.")
	}
	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SeedSuperAdmin creates or promotes the given account to super admin.
func SeedSuperAdmin(ctx context.Context, name string, email string, password string) (*User, bool, error) {
	db := config.GetDB()
	email = strings.ToLower(strings.TrimSpace(email))
	var existing User
	err := db.WithContext(ctx).Where("email = ?", email).Take(&existing).Error
	if err == nil {
		if existing.Role != UserRoleSuperAdmin {
			if err := db.WithContext(ctx).Model(&existing).Update("role", UserRoleSuperAdmin).Error; err != nil {
				return nil, false, err
			}
			existing.Role = UserRoleSuperAdmin
			if err := existing.RemoveInstanceRedis(); err != nil {
				config.LogError(config.GetLogger(), "User", "SeedSuperAdmin", "clear user cache", existing.ID, err)
			}
		}
		return &existing, false, nil
	}
	user, err := CreateUser(ctx, &NewUser{Name: name, Email: email, Password: password, Role: UserRoleSuperAdmin})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
