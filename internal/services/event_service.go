package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/posture"
	"github.com/halcyonlabs/argus/internal/query"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Record appends an event to the organization's audit log.
func (s *EventService) Record(orgID uint, event *models.SecurityEvent) error {
	event.OrganizationID = orgID
	return s.db.Create(event).Error
}

// Recent returns the latest events, newest first.
func (s *EventService) Recent(orgID uint, limit int) ([]models.SecurityEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	var events []models.SecurityEvent
	err := query.Events(s.db, orgID).
		Order("security_events.timestamp DESC, security_events.id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Trend buckets the organization's events into one point per UTC day over
// the window, gap-filled with zeros.
func (s *EventService) Trend(orgID uint, now time.Time, days int) ([]posture.TrendPoint, error) {
	if days <= 0 {
		days = posture.DefaultTrendDays
	}
	since := now.UTC().AddDate(0, 0, -days)

	var events []models.SecurityEvent
	err := query.Events(s.db, orgID).
		Where("security_events.timestamp >= ?", since).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	timestamp := func(e models.SecurityEvent) time.Time { return e.Timestamp }
	return posture.DailyTrend(events, timestamp, now, days), nil
}
