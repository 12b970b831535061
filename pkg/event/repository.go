package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gatherhub/event-manager/pkg/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

// findAll returns one page of events ordered by event date ascending. past
// selects events strictly before now instead of the default upcoming ones.
func (r repository) findAll(ctx context.Context, past bool, now time.Time, offset, limit int) ([]model.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Event{})
	if past {
		query = query.Where("event_date < ?", now)
	} else {
		query = query.Where("event_date >= ?", now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %v", err)
	}

	var events []model.Event
	err := query.
		Order("event_date asc").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find events: %v", err)
	}

	return events, total, nil
}

func (r repository) findById(ctx context.Context, id uint) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Joins("Creator").
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("event %d doesn't exist", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find event: %v", err)
	}

	return event, nil
}

func (r repository) create(ctx context.Context, event *model.Event) error {
	// only use ctx for values (logging) and not cancellation signals on cud operations. ctx
	// cancellation can lead to rollbacks which we should decide individually.
	ctx = context.WithoutCancel(ctx)

	return r.db.WithContext(ctx).Create(&event).Error
}

func (r repository) save(ctx context.Context, event *model.Event) error {
	ctx = context.WithoutCancel(ctx)

	return r.db.WithContext(ctx).Save(&event).Error
}

func (r repository) delete(ctx context.Context, id uint) error {
	ctx = context.WithoutCancel(ctx)

	db := r.db.WithContext(ctx).Delete(&model.Event{}, id)
	if db.Error != nil {
		return fmt.Errorf("failed to delete event with id %d: %v", id, db.Error)
	} else if db.RowsAffected < 1 {
		return errdef.NewNotFound("event %d doesn't exist", id)
	}

	return nil
}

// upsertRSVP inserts or overwrites the RSVP for (user, event). At most one row
// per pair exists, the latest status and notes win.
func (r repository) upsertRSVP(ctx context.Context, rsvp *model.RSVP) error {
	ctx = context.WithoutCancel(ctx)

	return r.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "updated_at"}),
		}).
		Create(&rsvp).Error
}

func (r repository) findRSVP(ctx context.Context, userID, eventID uint) (*model.RSVP, error) {
	var rsvp *model.RSVP
	err := r.db.
		WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&rsvp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("no RSVP for user %d and event %d", userID, eventID)
	}
	return rsvp, err
}

// countRSVPs returns per status counts for one event.
func (r repository) countRSVPs(ctx context.Context, eventID uint) (RSVPCounts, error) {
	var rows []struct {
		Status model.RSVPStatus
		Count  int
	}
	err := r.db.
		WithContext(ctx).
		Model(&model.RSVP{}).
		Select("status, count(*) as count").
		Where("event_id = ?", eventID).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return RSVPCounts{}, fmt.Errorf("failed to count RSVPs: %v", err)
	}

	var counts RSVPCounts
	for _, row := range rows {
		switch row.Status {
		case model.RSVPStatusAttending:
			counts.Attending = row.Count
		case model.RSVPStatusNotAttending:
			counts.NotAttending = row.Count
		case model.RSVPStatusMaybe:
			counts.Maybe = row.Count
		}
	}
	return counts, nil
}
