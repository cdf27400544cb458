package service

import (
	"context"
	"errors"
	"strings"

	"vidtube-go/internal/api/dto"
	infraMinio "vidtube-go/internal/infra/minio"
	"vidtube-go/internal/model"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/logger"
	"vidtube-go/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrRegisterFieldsRequired = errcode.BadRequest("所有字段均为必填")
	ErrAvatarRequired         = errcode.BadRequest("头像文件必传")
	ErrUserExists             = errcode.Conflict("用户名或邮箱已存在")
	ErrLoginIDRequired        = errcode.BadRequest("用户名或邮箱至少填写一个")
	// 用户不存在和密码错误返回同一个错误，避免枚举账号
	ErrInvalidCredential   = errcode.Unauthenticated("用户名或密码错误")
	ErrInvalidRefreshToken = errcode.Unauthenticated("刷新令牌无效或已过期")
)

type AuthService struct {
	userRepo *repository.UserRepository
	storage  MediaStorage
	tokens   *utils.TokenManager
}

func NewAuthService(userRepo *repository.UserRepository, storage MediaStorage, tokens *utils.TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, storage: storage, tokens: tokens}
}

// Register 用户注册：头像必传，封面可选，两者并发上传
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	defer removeLocal(req.AvatarPath, req.CoverPath)

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	password := req.Password

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", fullName},
		{"email", email},
		{"username", username},
		{"password", strings.TrimSpace(password)},
	} {
		if f.value == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) > 0 {
		return nil, ErrRegisterFieldsRequired.WithDetails(missing...)
	}
	if req.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if exists {
		return nil, ErrUserExists
	}

	files := []mediaFile{{path: req.AvatarPath, kind: infraMinio.KindAvatar}}
	if req.CoverPath != "" {
		files = append(files, mediaFile{path: req.CoverPath, kind: infraMinio.KindCover})
	}
	objects, err := uploadAll(ctx, s.storage, files...)
	if err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		removeObjects(ctx, s.storage, objects...)
		return nil, errcode.Internal(err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       objects[0].URL,
		AvatarObject: objects[0].Name,
		Password:     hashed,
	}
	if len(objects) > 1 {
		user.CoverImage = objects[1].URL
		user.CoverObject = objects[1].Name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		removeObjects(ctx, s.storage, objects...)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, errcode.Internal(err)
	}

	logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return toUserInfo(user), nil
}

// Login 用户名或邮箱登录，成功后签发新的令牌对并替换已保存的刷新令牌
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginData, error) {
	if strings.TrimSpace(req.Username) == "" && strings.TrimSpace(req.Email) == "" {
		return nil, ErrLoginIDRequired
	}

	user, err := s.userRepo.GetByLogin(ctx, req.Username, req.Email)
	if err != nil {
		return nil, lookupErr(err, ErrInvalidCredential)
	}
	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	data, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	data.User = toUserInfo(user)
	return data, nil
}

// Refresh 刷新令牌必须验签通过且与已保存的一致，成功后两个令牌都轮换
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginData, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, lookupErr(err, ErrInvalidRefreshToken)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueSession(ctx, user.ID)
}

// Logout 清空已保存的刷新令牌
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	err := s.userRepo.SetRefreshToken(ctx, userID, nil)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return errcode.Internal(err)
	}
	return nil
}

// Authenticate 解析访问令牌，中间件使用
func (s *AuthService) Authenticate(accessToken string) (int64, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID int64) (*dto.LoginData, error) {
	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, userID, &pair.RefreshToken); err != nil {
		return nil, lookupErr(err, ErrInvalidCredential)
	}
	return &dto.LoginData{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
