/**
 * @description
 * This file models the incoming webhook payloads from Paystack and classifies
 * them into the small closed set of events the reconciliation engine handles.
 *
 * @notes
 * - Unknown event tags are not an error: Paystack sends many event types this
 *   service intentionally ignores, and it must still acknowledge them so the
 *   provider does not retry-storm.
 * - A body that is not valid JSON at all is a distinct failure and surfaces
 *   as an error, so the endpoint can answer 500 and let Paystack redeliver.
 */
package paystack

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies which webhook event was delivered.
type EventKind string

const (
	EventChargeSuccess        EventKind = "charge.success"
	EventPaymentFailed        EventKind = "invoice.payment_failed"
	EventSubscriptionDisabled EventKind = "subscription.disable"
	EventUnknown              EventKind = "unknown"
)

// Event is the classified form of a webhook delivery. Only the fields
// relevant to the delivered kind are populated.
type Event struct {
	Kind             EventKind
	Email            string
	SubscriptionCode string
	CustomerCode     string
}

// webhookPayload mirrors the provider's wire shape. The subscription field is
// a plain code string on charge.success but appears as subscription_code on
// subscription.disable events.
type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Customer struct {
			Email        string `json:"email"`
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
		Subscription     string `json:"subscription"`
		SubscriptionCode string `json:"subscription_code"`
	} `json:"data"`
}

// ParseEvent classifies the verified raw webhook body. Unrecognized event
// tags classify as EventUnknown with a nil error; malformed JSON returns an
// error.
func ParseEvent(body []byte) (Event, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Event{}, fmt.Errorf("malformed webhook payload: %w", err)
	}

	switch payload.Event {
	case "charge.success":
		return Event{
			Kind:             EventChargeSuccess,
			Email:            payload.Data.Customer.Email,
			SubscriptionCode: payload.Data.Subscription,
			CustomerCode:     payload.Data.Customer.CustomerCode,
		}, nil
	case "invoice.payment_failed":
		return Event{
			Kind:  EventPaymentFailed,
			Email: payload.Data.Customer.Email,
		}, nil
	case "subscription.disable":
		return Event{
			Kind:             EventSubscriptionDisabled,
			SubscriptionCode: payload.Data.SubscriptionCode,
		}, nil
	default:
		return Event{Kind: EventUnknown}, nil
	}
}
