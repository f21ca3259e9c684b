package models

import (
	"context"
	"time"

	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;not null;default:'cashier'" json:"role"`
	HangarId  int       `gorm:"index" json:"hangar_id"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string   `json:"username" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Phone    string   `json:"phone"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"role" binding:"required"`
	HangarId int      `json:"hangar_id"`
}

type LoginInfo struct {
	Token    string   `json:"token"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	HangarId int      `json:"hangar_id"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func (input *NewUser) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, id); err != nil {
		return err
	}
	if input.Role != UserRoleAdmin && input.Role != UserRoleCashier {
		return utils.ValidationError("invalid user role")
	}
	if len(input.Password) < 6 {
		return utils.ValidationError("password must be at least 6 characters")
	}
	if input.HangarId > 0 {
		if err := utils.ValidateResourceId[Hangar](ctx, input.HangarId); err != nil {
			return utils.NotFoundError("hangar not found")
		}
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, utils.CollaboratorError(err, "could not hash password")
	}

	user := User{
		Username: input.Username,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: string(hashed),
		Role:     input.Role,
		HangarId: input.HangarId,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not create user")
	}

	user.PrepareGive()
	return &user, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	user := User{}
	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, utils.ValidationError("invalid username or password")
	}

	// check login credentials; a malformed stored hash must fail too
	err = utils.ComparePassword(user.Password, password)
	if err != nil {
		return nil, utils.ValidationError("invalid username or password")
	}

	if user.IsActive == nil || !*user.IsActive {
		return nil, utils.ConflictError("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role), user.Name, user.HangarId)
	if err != nil {
		return nil, utils.CollaboratorError(err, "could not issue token")
	}

	return &LoginInfo{
		Token:    token,
		Name:     user.Name,
		Role:     user.Role,
		HangarId: user.HangarId,
	}, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("user not found")
	}
	user.PrepareGive()
	return user, nil
}

func ListUsers(ctx context.Context) ([]*User, error) {
	users, err := utils.FetchAllModels[User](ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PrepareGive()
	}
	return users, nil
}

func ToggleActiveUser(ctx context.Context, id int, isActive bool) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("user not found")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&user).Update("is_active", isActive).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not update user")
	}
	user.PrepareGive()
	return user, nil
}
