package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/logger"
	"github.com/halcyonlabs/argus/internal/models"
)

var severityRank = map[string]int{
	"info":     0,
	"low":      1,
	"medium":   2,
	"high":     3,
	"critical": 4,
}

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Internal notifications (DB)

func (s *NotificationService) Create(orgID uint, nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		OrganizationID: orgID,
		Type:           nType,
		Title:          title,
		Message:        message,
		Read:           false,
	}
	result := s.db.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(orgID uint, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	q := s.db.Where("organization_id = ?", orgID).Order("created_at desc")
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	result := q.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(orgID uint, id string) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(orgID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("organization_id = ? AND read = ?", orgID, false).
		Update("read", true).Error
}

// External notifications (shoutrrr and plain webhooks)

// SendExternal dispatches an alert to every enabled provider of the
// organization whose preferences match the event type and severity.
// Delivery is fire-and-forget; failures are logged, never returned.
func (s *NotificationService) SendExternal(orgID uint, eventType, severity, title, message string) {
	var providers []models.NotificationProvider
	if err := s.db.Where("organization_id = ? AND enabled = ?", orgID, true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		switch eventType {
		case "threat":
			if !provider.NotifyThreats {
				continue
			}
		case "posture":
			if !provider.NotifyPosture {
				continue
			}
		}
		if severityRank[severity] < severityRank[provider.MinSeverity] {
			continue
		}

		go func(p models.NotificationProvider) {
			var err error
			if p.Type == "webhook" {
				err = postWebhook(p.URL, eventType, severity, title, message)
			} else {
				err = shoutrrr.Send(p.URL, title+"\n"+message)
			}
			if err != nil {
				logger.WithFields(map[string]interface{}{
					"provider": p.Name,
					"type":     p.Type,
				}).WithError(err).Error("failed to send external notification")
			}
		}(provider)
	}
}

func postWebhook(url, eventType, severity, title, message string) error {
	payload, err := json.Marshal(map[string]string{
		"event":    eventType,
		"severity": severity,
		"title":    title,
		"message":  message,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	client := http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// Providers

func (s *NotificationService) ListProviders(orgID uint) ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	result := s.db.Where("organization_id = ?", orgID).Find(&providers)
	return providers, result.Error
}

func (s *NotificationService) CreateProvider(orgID uint, provider *models.NotificationProvider) error {
	provider.OrganizationID = orgID
	if provider.MinSeverity == "" {
		provider.MinSeverity = "high"
	}
	return s.db.Create(provider).Error
}

func (s *NotificationService) DeleteProvider(orgID, id uint) error {
	result := s.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&models.NotificationProvider{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
