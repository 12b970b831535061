package notification

import (
	"context"
	"fmt"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gatherhub/event-manager/pkg/model"

	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, notification *model.Notification) error {
	ctx = context.WithoutCancel(ctx)

	return r.db.WithContext(ctx).Create(&notification).Error
}

func (r repository) createInBatches(ctx context.Context, notifications []model.Notification, batchSize int) error {
	ctx = context.WithoutCancel(ctx)

	return r.db.WithContext(ctx).CreateInBatches(&notifications, batchSize).Error
}

func (r repository) findByUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %v", err)
	}

	return notifications, nil
}

// markRead flips the read flag. The user id is part of the predicate so users
// can only mark their own notifications.
func (r repository) markRead(ctx context.Context, id, userID uint) error {
	ctx = context.WithoutCancel(ctx)

	db := r.db.
		WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if db.Error != nil {
		return fmt.Errorf("failed to mark notification %d read: %v", id, db.Error)
	} else if db.RowsAffected < 1 {
		return errdef.NewNotFound("notification %d doesn't exist", id)
	}

	return nil
}
