package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quadra_host_v1/internal/api/dto"
	"quadra_host_v1/internal/model"
	"quadra_host_v1/internal/repository"
)

func setupUserService(t *testing.T) *UserService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.HostUser{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return NewUserService(repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	info, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "hostuser",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if info.Role != model.RoleHost || info.Status != model.UserStatusActive {
		t.Errorf("新账号角色/状态不正确: %s/%s", info.Role, info.Status)
	}

	// 重复用户名
	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "hostuser",
		Password: "another",
	}); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("重复用户名应报错: %v", err)
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "hostuser", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录应返回 Token 对")
	}

	// 密码错误
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "hostuser", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("错误密码应报错: %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	svc.Register(ctx, &dto.RegisterRequest{Username: "hostuser", Password: "secret123"})
	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "hostuser", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	resp, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("刷新应返回新 Token")
	}

	// Access Token 不能当 Refresh Token 用
	if _, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.AccessToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Token 类型错误应被拒绝: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	info, _ := svc.Register(ctx, &dto.RegisterRequest{Username: "hostuser", Password: "secret123"})

	if err := svc.ChangePassword(ctx, info.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong-old",
		NewPassword: "newsecret",
	}); !errors.Is(err, ErrInvalidOldPassword) {
		t.Errorf("旧密码错误应被拒绝: %v", err)
	}

	if err := svc.ChangePassword(ctx, info.ID, &dto.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "newsecret",
	}); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "hostuser", Password: "newsecret"}); err != nil {
		t.Errorf("新密码应可登录: %v", err)
	}
}
