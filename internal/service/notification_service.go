package service

import (
	"encoding/json"
	"log"

	"avatarapp/internal/feed"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"
	"avatarapp/internal/ws"
)

// NotificationService persists admin feed events and pushes them to
// connected admin websocket clients. The hub may be nil in tests.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

func (s *NotificationService) Publish(ev feed.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	n := &models.AdminNotification{
		Kind:  ev.Kind(),
		Title: ev.Title(),
		Body:  ev.Body(),
		Data:  string(data),
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastAll(map[string]interface{}{
			"id":         n.ID,
			"kind":       n.Kind,
			"title":      n.Title,
			"body":       n.Body,
			"data":       ev,
			"created_at": n.CreatedAt,
		})
	}
	return nil
}

// PublishAsync is for fire-and-forget call sites that must not fail on a
// feed write (registration, interview submit).
func (s *NotificationService) PublishAsync(ev feed.Event) {
	if err := s.Publish(ev); err != nil {
		log.Printf("[feed] publish %s failed: %v", ev.Kind(), err)
	}
}
