package routes

import (
	"fmt"

	"github.com/chamber122/chamber122-backend/internal/bulletins"
	"github.com/chamber122/chamber122-backend/internal/businesses"
	"github.com/chamber122/chamber122-backend/internal/dashboard"
	"github.com/chamber122/chamber122-backend/internal/events"
	"github.com/chamber122/chamber122-backend/internal/messages"
	"github.com/chamber122/chamber122-backend/internal/users"
	"gorm.io/gorm"
)

// Services groups the domain services mounted by the router.
type Services struct {
	Businesses businesses.Service
	Users      users.Service
	Events     events.Service
	Bulletins  bulletins.Service
	Dashboard  dashboard.Service
	Messages   messages.Service
}

// NewServices wires every repository and service against one database.
func NewServices(conn *gorm.DB) (Services, error) {
	if conn == nil {
		return Services{}, fmt.Errorf("database connection required")
	}
	businessRepo := businesses.NewRepository(conn)
	eventRepo := events.NewRepository(conn)
	bulletinRepo := bulletins.NewRepository(conn)

	var (
		svc Services
		err error
	)
	if svc.Businesses, err = businesses.NewService(businessRepo); err != nil {
		return Services{}, fmt.Errorf("businesses service: %w", err)
	}
	if svc.Users, err = users.NewService(users.NewRepository(conn)); err != nil {
		return Services{}, fmt.Errorf("users service: %w", err)
	}
	if svc.Events, err = events.NewService(eventRepo, businessRepo); err != nil {
		return Services{}, fmt.Errorf("events service: %w", err)
	}
	if svc.Bulletins, err = bulletins.NewService(bulletinRepo, businessRepo); err != nil {
		return Services{}, fmt.Errorf("bulletins service: %w", err)
	}
	if svc.Dashboard, err = dashboard.NewService(eventRepo, bulletinRepo); err != nil {
		return Services{}, fmt.Errorf("dashboard service: %w", err)
	}
	if svc.Messages, err = messages.NewService(messages.NewRepository(conn)); err != nil {
		return Services{}, fmt.Errorf("messages service: %w", err)
	}
	return svc, nil
}
