package notify

import (
	"context"
	"fmt"
	"sync"

	pubnub "github.com/pubnub/go"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
)

// LogHost writes notifications to the log. A permission request from the
// default state is granted.
type LogHost struct {
	log *zap.Logger

	mu         sync.Mutex
	permission Permission
}

// NewLogHost returns a LogHost starting at the given permission.
func NewLogHost(log *zap.Logger, initial Permission) *LogHost {
	return &LogHost{log: log, permission: initial}
}

func (h *LogHost) Permission() Permission {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.permission
}

func (h *LogHost) RequestPermission(context.Context) (Permission, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.permission == PermissionDefault {
		h.permission = PermissionGranted
	}
	return h.permission, nil
}

func (h *LogHost) Show(_ context.Context, userID string, opts model.NotificationOptions) error {
	h.log.Info("notification",
		zap.String("user_id", userID),
		zap.String("title", opts.Title),
		zap.String("body", opts.Body),
		zap.String("icon", opts.Icon),
	)
	return nil
}

// publisher is the part of *pubnub.PubNub PubNubHost needs.
type publisher interface {
	Publish(channel string, message map[string]any) error
}

type pubnubPublisher struct {
	pn *pubnub.PubNub
}

func (p pubnubPublisher) Publish(channel string, message map[string]any) error {
	_, status, err := p.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
	if err != nil {
		return err
	}
	if status.Error != nil {
		return status.Error
	}
	return nil
}

// PubNubHost publishes notifications to the user's PubNub channel, where a
// connected client turns them into system notifications. Permission is
// granted once the keys are configured.
type PubNubHost struct {
	pub publisher
}

// NewPubNubHost builds a PubNub client from keys.
func NewPubNubHost(publishKey, subscribeKey, uuid string) *PubNubHost {
	cfg := pubnub.NewConfig()
	cfg.PublishKey = publishKey
	cfg.SubscribeKey = subscribeKey
	cfg.UUID = uuid
	return &PubNubHost{pub: pubnubPublisher{pn: pubnub.NewPubNub(cfg)}}
}

// UserChannel is the channel a user's client subscribes to.
func UserChannel(userID string) string {
	return fmt.Sprintf("user-%s", userID)
}

func (h *PubNubHost) Permission() Permission {
	return PermissionGranted
}

func (h *PubNubHost) RequestPermission(context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (h *PubNubHost) Show(_ context.Context, userID string, opts model.NotificationOptions) error {
	err := h.pub.Publish(UserChannel(userID), map[string]any{
		"type":  "notification",
		"title": opts.Title,
		"body":  opts.Body,
		"icon":  opts.Icon,
		"badge": DefaultIcon,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", UserChannel(userID), err)
	}
	return nil
}
