package service

import (
	"context"
	"strings"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
)

var (
	ErrCommentNotFound     = errcode.NotFound("评论不存在")
	ErrCommentNoPermission = errcode.Forbidden("没有权限操作该评论")
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	videoRepo   *repository.VideoRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, videoRepo *repository.VideoRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, videoRepo: videoRepo}
}

// ListByVideo 视频评论，最新的在前，不支持自定义排序
func (s *CommentService) ListByVideo(ctx context.Context, videoID int64, q *dto.ListQuery) (*pagination.Page[dto.CommentInfo], error) {
	p, err := pagination.Parse(pagination.Query{Page: q.Page, Limit: q.Limit}, nil)
	if err != nil {
		return nil, err
	}

	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	comments, total, err := s.commentRepo.ListByVideo(ctx, videoID, p)
	if err != nil {
		return nil, errcode.Internal(err)
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, *toCommentInfo(&comments[i]))
	}
	return pagination.NewPage(items, p, total), nil
}

// Create 发表评论
func (s *CommentService) Create(ctx context.Context, actorID, videoID int64, req *dto.ContentRequest) (*dto.CommentInfo, error) {
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	comment := &model.Comment{VideoID: videoID, OwnerID: actorID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, errcode.Internal(err)
	}
	return s.reload(ctx, comment.ID)
}

// Update 修改评论内容（仅评论者本人）
func (s *CommentService) Update(ctx context.Context, actorID, commentID int64, req *dto.ContentRequest) (*dto.CommentInfo, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, lookupErr(err, ErrCommentNotFound)
	}
	if err := authorize(comment.OwnerID, actorID, ErrCommentNoPermission); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	if err := s.commentRepo.UpdateContent(ctx, commentID, content); err != nil {
		return nil, lookupErr(err, ErrCommentNotFound)
	}
	return s.reload(ctx, commentID)
}

// Delete 删除评论及其点赞
func (s *CommentService) Delete(ctx context.Context, actorID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return lookupErr(err, ErrCommentNotFound)
	}
	if err := authorize(comment.OwnerID, actorID, ErrCommentNoPermission); err != nil {
		return err
	}

	if _, err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return errcode.Internal(err)
	}
	return nil
}

func (s *CommentService) reload(ctx context.Context, commentID int64) (*dto.CommentInfo, error) {
	comment, err := s.commentRepo.GetByIDWithOwner(ctx, commentID)
	if err != nil {
		return nil, lookupErr(err, ErrCommentNotFound)
	}
	return toCommentInfo(comment), nil
}

func toCommentInfo(c *model.Comment) *dto.CommentInfo {
	return &dto.CommentInfo{
		ID:        c.ID,
		Content:   c.Content,
		VideoID:   c.VideoID,
		OwnerID:   c.OwnerID,
		Owner:     toOwnerBrief(c.Owner),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
