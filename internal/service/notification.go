package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"dhoni/internal/domain"
	"dhoni/internal/repository"
)

// VAPIDConfig holds the web-push signing identity.
type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
}

// unpaidPayload is the push message body for the reminder.
type unpaidPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  unpaidPayloadData `json:"data"`
}

type unpaidPayloadData struct {
	UnpaidCount int     `json:"unpaidCount"`
	TotalAmount float64 `json:"totalAmount"`
	URL         string  `json:"url"`
}

// ReminderResult summarizes one reminder scan.
type ReminderResult struct {
	SubscriptionsChecked int `json:"subscriptionsChecked"`
	NotificationsSent    int `json:"notificationsSent"`
}

// ReminderService sends unpaid-sale push reminders. It scans every
// stored subscription, re-reads that user's trips from the remote
// store, folds the unpaid sales and dispatches one push per user with
// outstanding payments. It shares nothing with the client-facing store
// layer beyond the remote schema.
type ReminderService struct {
	subs  repository.SubscriptionRepository
	trips repository.TripRepository
	vapid VAPIDConfig
	log   zerolog.Logger
}

// NewReminderService creates a new ReminderService.
func NewReminderService(
	subs repository.SubscriptionRepository,
	trips repository.TripRepository,
	vapid VAPIDConfig,
	log zerolog.Logger,
) *ReminderService {
	return &ReminderService{
		subs:  subs,
		trips: trips,
		vapid: vapid,
		log:   log.With().Str("component", "reminder_service").Logger(),
	}
}

// RegisterSubscription stores a user's push subscription.
func (s *ReminderService) RegisterSubscription(ctx context.Context, userID string, data domain.SubscriptionData) error {
	if data.Endpoint == "" {
		return ErrInvalidSubscription
	}
	return s.subs.Upsert(ctx, &domain.PushSubscription{
		UserID:           userID,
		SubscriptionData: data,
		CreatedAt:        time.Now().UTC(),
	})
}

// RemoveSubscription deletes a user's push subscription.
func (s *ReminderService) RemoveSubscription(ctx context.Context, userID string) error {
	return s.subs.Delete(ctx, userID)
}

// Run performs one reminder scan. Failures for individual users are
// logged and skipped; the scan itself only fails when the subscription
// list cannot be read.
func (s *ReminderService) Run(ctx context.Context) (ReminderResult, error) {
	subs, err := s.subs.GetAll(ctx)
	if err != nil {
		return ReminderResult{}, err
	}

	result := ReminderResult{SubscriptionsChecked: len(subs)}
	for _, sub := range subs {
		count, total, err := s.unpaidTotals(ctx, sub.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("user", sub.UserID).Msg("skipping user, trips unreadable")
			continue
		}
		if count == 0 {
			continue
		}

		if err := s.push(ctx, sub, count, total); err != nil {
			s.log.Warn().Err(err).Str("user", sub.UserID).Msg("push delivery failed")
			continue
		}
		result.NotificationsSent++
	}

	s.log.Info().
		Int("checked", result.SubscriptionsChecked).
		Int("sent", result.NotificationsSent).
		Msg("unpaid sales reminder scan complete")

	return result, nil
}

// unpaidTotals folds a user's trips into unpaid-sale count and amount.
func (s *ReminderService) unpaidTotals(ctx context.Context, userID string) (int, float64, error) {
	trips, err := s.trips.GetAllByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	count := 0
	total := 0.0
	for _, trip := range trips {
		for _, sale := range trip.FishSales {
			if !sale.Paid {
				count++
				total += sale.TotalAmount
			}
		}
	}
	return count, total, nil
}

func (s *ReminderService) push(ctx context.Context, sub domain.PushSubscription, count int, total float64) error {
	payload, err := json.Marshal(unpaidPayload{
		Title: "Unpaid Sales Reminder",
		Body:  fmt.Sprintf("You have %d unpaid sales totaling MVR %.2f", count, total),
		Data: unpaidPayloadData{
			UnpaidCount: count,
			TotalAmount: total,
			URL:         "/history",
		},
	})
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.SubscriptionData.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.SubscriptionData.Keys.P256dh,
			Auth:   sub.SubscriptionData.Keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.vapid.Subscriber,
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             3600,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
