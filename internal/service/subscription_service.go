package service

import (
	"context"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
)

// SubscriptionService 订阅关系，允许订阅自己
type SubscriptionService struct {
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
}

func NewSubscriptionService(subRepo *repository.SubscriptionRepository, userRepo *repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo}
}

// Toggle 订阅或取消订阅频道
func (s *SubscriptionService) Toggle(ctx context.Context, actorID, channelID int64) (*dto.SubscriptionToggleResult, error) {
	if err := s.requireUser(ctx, channelID, ErrChannelNotFound); err != nil {
		return nil, err
	}

	subscribed, err := s.subRepo.Toggle(ctx, actorID, channelID)
	if err != nil {
		return nil, toggleErr(err)
	}
	recordToggle("subscription", subscribed)
	return &dto.SubscriptionToggleResult{Subscribed: subscribed}, nil
}

// Subscribers 频道的订阅者
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID int64) ([]dto.ChannelBrief, error) {
	if err := s.requireUser(ctx, channelID, ErrChannelNotFound); err != nil {
		return nil, err
	}
	users, err := s.subRepo.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	return toChannelBriefs(users), nil
}

// SubscribedChannels 用户订阅的频道
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID int64) ([]dto.ChannelBrief, error) {
	if err := s.requireUser(ctx, subscriberID, ErrUserNotFound); err != nil {
		return nil, err
	}
	users, err := s.subRepo.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	return toChannelBriefs(users), nil
}

func (s *SubscriptionService) requireUser(ctx context.Context, userID int64, notFound *errcode.AppError) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return errcode.Internal(err)
	}
	if !exists {
		return notFound
	}
	return nil
}
