package domain

import "time"

// PushSubscription is one user's web-push endpoint registration.
// SubscriptionData is the browser subscription JSON, stored opaquely.
type PushSubscription struct {
	UserID           string           `json:"user_id"`
	SubscriptionData SubscriptionData `json:"subscription_data"`
	CreatedAt        time.Time        `json:"created_at"`
}

// SubscriptionData mirrors the W3C PushSubscription JSON shape.
type SubscriptionData struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

// SubscriptionKeys holds the client's push encryption keys.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}
