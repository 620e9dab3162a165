// internal/app/features/notifications/types.go
package notifications

import "time"

// createForm is the body of POST /notifs/create.
type createForm struct {
	EventID   string `json:"eventId" validate:"required,objectid" label:"Event"`
	NotifType string `json:"notifType" validate:"required" label:"Notification type"`
}

type createResponse struct {
	EventID   string `json:"eventId"`
	NotifType string `json:"notifType"`
	Count     int    `json:"count"`
}

// item is one notification joined with its event.
type item struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	CreatedAt        time.Time `json:"createdAt"`
	EventID          string    `json:"eventId"`
	EventName        string    `json:"eventName"`
	EventDate        string    `json:"eventDate,omitempty"`
	EventLocation    string    `json:"eventLocation,omitempty"`
	EventDescription string    `json:"eventDescription,omitempty"`
}
