package domain

import "time"

const (
	NotificationShiftAssigned  = "shift_assigned"
	NotificationCompOffGranted = "comp_off_granted"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userID"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationMessage is the payload published to the notification queue and
// consumed by the notifier worker.
type NotificationMessage struct {
	Type     string `json:"type"`
	To       string `json:"to"`
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}
