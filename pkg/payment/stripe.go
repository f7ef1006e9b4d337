package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"experience-market/pkg/utils"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

type stripeGateway struct {
	sessions      *session.Client
	webhookSecret string
	currency      string
	successURL    string
	cancelURL     string
	log           *zap.Logger
}

func NewStripeGateway(config utils.StripeConfig, log *zap.Logger) Gateway {
	return &stripeGateway{
		sessions: &session.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: config.SecretKey,
		},
		webhookSecret: config.WebhookSecret,
		currency:      config.Currency,
		successURL:    config.SuccessURL,
		cancelURL:     config.CancelURL,
		log:           log.With(zap.String("gateway", "stripe")),
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(p.Title),
	}
	if p.Description != "" {
		product.Description = stripe.String(p.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(p.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(g.currency),
					UnitAmount:  stripe.Int64(p.UnitCents),
					ProductData: product,
				},
				Quantity: stripe.Int64(p.Quantity),
			},
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata.Map() {
		params.AddMetadata(k, v)
	}

	s, err := g.sessions.New(params)
	if err != nil {
		g.log.Error("Failed to create checkout session",
			zap.Error(err),
			zap.String("reference", p.Reference),
		)
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// checkoutSessionObject is the subset of the session object we rely on
type checkoutSessionObject struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return decodeEvent(event.ID, string(event.Type), event.Data)
}

func decodeEvent(id, eventType string, data *stripe.EventData) (*Event, error) {
	if id == "" || eventType == "" {
		return nil, fmt.Errorf("%w: missing event id or type", ErrInvalidPayload)
	}

	ev := &Event{ID: id, Type: eventType}
	if eventType != EventCheckoutCompleted && eventType != EventCheckoutExpired {
		return ev, nil
	}

	if data == nil || len(data.Raw) == 0 {
		return nil, fmt.Errorf("%w: missing session object", ErrInvalidPayload)
	}

	var obj checkoutSessionObject
	if err := json.Unmarshal(data.Raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if obj.Object != "checkout.session" || obj.ID == "" {
		return nil, fmt.Errorf("%w: unexpected object %q", ErrInvalidPayload, obj.Object)
	}

	ev.Session = &SessionEvent{ID: obj.ID, PaymentStatus: obj.PaymentStatus}

	// expired sessions are only logged, their metadata is not needed
	if eventType == EventCheckoutCompleted {
		meta, err := ParseBookingMetadata(obj.Metadata)
		if err != nil {
			return nil, err
		}
		ev.Session.Metadata = meta
	}

	return ev, nil
}
