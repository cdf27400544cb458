package service

import (
	"context"
	"errors"
	"strings"

	"vidtube-go/internal/api/dto"
	infraMinio "vidtube-go/internal/infra/minio"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrWrongOldPassword = errcode.BadRequest("原密码错误")
	ErrFullNameRequired = errcode.BadRequest("昵称不能为空")
	ErrEmailRequired    = errcode.BadRequest("邮箱不能为空")
	ErrEmailTaken       = errcode.Conflict("邮箱已被使用")
	ErrImageRequired    = errcode.BadRequest("请上传图片文件")
	ErrChannelNotFound  = errcode.NotFound("频道不存在")
)

// UserService 账户资料与频道主页
type UserService struct {
	userRepo    *repository.UserRepository
	channelRepo *repository.ChannelRepository
	storage     MediaStorage
}

func NewUserService(userRepo *repository.UserRepository, channelRepo *repository.ChannelRepository, storage MediaStorage) *UserService {
	return &UserService{userRepo: userRepo, channelRepo: channelRepo, storage: storage}
}

// GetCurrentUser 获取当前登录用户
func (s *UserService) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}
	return toUserInfo(user), nil
}

// ChangePassword 旧密码必须匹配
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return lookupErr(err, ErrUserNotFound)
	}
	if !utils.VerifyPassword(req.OldPassword, user.Password) {
		return ErrWrongOldPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return errcode.Internal(err)
	}
	if _, err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password": hashed}); err != nil {
		return lookupErr(err, ErrUserNotFound)
	}
	return nil
}

// UpdateAccount 修改昵称或邮箱
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *dto.UpdateAccountRequest) (*dto.UserInfo, error) {
	updates := make(map[string]interface{})

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, ErrFullNameRequired
		}
		updates["full_name"] = name
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, ErrEmailRequired
		}
		taken, err := s.userRepo.EmailTaken(ctx, email, userID)
		if err != nil {
			return nil, errcode.Internal(err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		updates["email"] = email
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.Update(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, lookupErr(err, ErrUserNotFound)
	}
	return toUserInfo(user), nil
}

// UpdateAvatar 替换头像，旧对象尽力删除
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*dto.UserInfo, error) {
	return s.replaceImage(ctx, userID, localPath, infraMinio.KindAvatar)
}

// UpdateCoverImage 替换封面
func (s *UserService) UpdateCoverImage(ctx context.Context, userID int64, localPath string) (*dto.UserInfo, error) {
	return s.replaceImage(ctx, userID, localPath, infraMinio.KindCover)
}

func (s *UserService) replaceImage(ctx context.Context, userID int64, localPath, kind string) (*dto.UserInfo, error) {
	defer removeLocal(localPath)

	if localPath == "" {
		return nil, ErrImageRequired
	}

	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}

	objects, err := uploadAll(ctx, s.storage, mediaFile{path: localPath, kind: kind})
	if err != nil {
		return nil, err
	}
	obj := objects[0]

	urlColumn, objectColumn, previous := "avatar", "avatar_object", current.AvatarObject
	if kind == infraMinio.KindCover {
		urlColumn, objectColumn, previous = "cover_image", "cover_object", current.CoverObject
	}

	user, err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		urlColumn:    obj.URL,
		objectColumn: obj.Name,
	})
	if err != nil {
		removeObjects(ctx, s.storage, obj)
		return nil, lookupErr(err, ErrUserNotFound)
	}

	removeObject(ctx, s.storage, previous)
	return toUserInfo(user), nil
}

// GetChannelProfile actorID 为 0 表示未登录
func (s *UserService) GetChannelProfile(ctx context.Context, actorID int64, username string) (*dto.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errcode.BadRequest("用户名不能为空")
	}

	row, err := s.channelRepo.GetProfile(ctx, actorID, username)
	if err != nil {
		return nil, lookupErr(err, ErrChannelNotFound)
	}

	return &dto.ChannelProfile{
		FullName:                  row.FullName,
		Username:                  row.Username,
		SubscribersCount:          row.SubscribersCount,
		ChannelsSubscribedToCount: row.ChannelsSubscribedToCount,
		IsSubscribed:              row.IsSubscribed > 0,
		Avatar:                    row.Avatar,
		CoverImage:                row.CoverImage,
		Email:                     row.Email,
	}, nil
}

// GetWatchHistory 按观看顺序返回，已删除的视频不出现
func (s *UserService) GetWatchHistory(ctx context.Context, userID int64) ([]dto.HistoryItem, error) {
	rows, err := s.channelRepo.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, errcode.Internal(err)
	}

	items := make([]dto.HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.HistoryItem{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			VideoFile:   r.VideoFile,
			Thumbnail:   r.Thumbnail,
			Duration:    r.Duration,
			Views:       r.Views,
			IsPublished: r.IsPublished,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
			Owner: dto.OwnerBrief{
				FullName: r.OwnerFullName,
				Username: r.OwnerUsername,
				Avatar:   r.OwnerAvatar,
			},
		})
	}
	return items, nil
}
