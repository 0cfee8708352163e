package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/auth"
	"github.com/example/goshop/internal/config"
	"github.com/example/goshop/internal/datamodels/user"
	"github.com/example/goshop/internal/errs"
)

type UserService struct {
	repo user.Repository
	jwt  *config.JWTConfig
}

func NewUserService(repo user.Repository, jwt *config.JWTConfig) *UserService {
	return &UserService{repo: repo, jwt: jwt}
}

func hashPassword(raw, salt string) string {
	h := sha256.Sum256([]byte(raw + salt))
	return hex.EncodeToString(h[:])
}

// Register 注册买家或卖家账户
func (s *UserService) Register(ctx context.Context, name, email, password, role string) (*user.User, error) {
	if name == "" || email == "" {
		return nil, errs.New(errs.KindValidation, "name and email are required")
	}
	if len(password) < 8 {
		return nil, errs.New(errs.KindValidation, "password must be at least 8 characters")
	}
	if !user.ValidRole(role) {
		return nil, errs.Newf(errs.KindValidation, "role must be %s or %s", user.RoleBuyer, user.RoleSeller)
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errs.New(errs.KindValidation, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u := &user.User{
		Name:  name,
		Email: email,
		Role:  role,
		Salt:  "goshop", // 简化实现，真实业务请使用随机盐
	}
	u.Password = hashPassword(password, u.Salt)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 登录并返回 JWT（携带角色）
func (s *UserService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errs.New(errs.KindUnauthorized, "invalid credentials")
		}
		return "", nil, err
	}
	if hashPassword(password, u.Salt) != u.Password {
		return "", nil, errs.New(errs.KindUnauthorized, "invalid credentials")
	}
	token, err := auth.GenerateToken(s.jwt, u.ID, u.Name, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// GetByID 查询用户
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "user %d not found", id)
		}
		return nil, err
	}
	return u, nil
}
