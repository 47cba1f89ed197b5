package entity

import "time"

const (
	NotificationChannelWebhook = "webhook"
	NotificationChannelReturn  = "return"
)

const (
	NotificationStatusProcessed int32 = 10
	NotificationStatusIgnored   int32 = 15
	NotificationStatusRejected  int32 = 20
)

type GatewayNotification struct {
	ID uint64

	OrderID *uint64

	Channel     string
	RecordType  string
	Checksum    string
	PayloadJSON string
	Status      int32
	Error       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
