package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"experience-market/internal/dto/request"
	"experience-market/internal/dto/response"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleServiceError_MapsCategories(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", fmt.Errorf("%w: guests must be at least 1", usecase.ErrValidation), http.StatusBadRequest, "validation failed: guests must be at least 1"},
		{"signature", fmt.Errorf("%w: bad header", usecase.ErrSignature), http.StatusBadRequest, ""},
		{"unauthenticated", usecase.ErrUnauthenticated, http.StatusUnauthorized, ""},
		{"forbidden", fmt.Errorf("%w: not your booking", usecase.ErrForbidden), http.StatusForbidden, ""},
		{"not found", fmt.Errorf("%w: experience", usecase.ErrNotFound), http.StatusNotFound, ""},
		{"conflict", fmt.Errorf("%w: cancellation request already exists", usecase.ErrConflict), http.StatusConflict, ""},
		{"payment", fmt.Errorf("%w: card declined", usecase.ErrPayment), http.StatusBadGateway, ""},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.code, rec.Code)
			body := decodeBody(t, rec)
			assert.False(t, body.Status)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestHandleServiceError_InternalDetailIsHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "test")

	assert.NotContains(t, rec.Body.String(), "password")
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query   string
		page    int
		perPage int
	}{
		{"", 1, 10},
		{"page=3&per_page=25", 3, 25},
		{"page=-2&per_page=0", 1, 10},
		{"page=abc&per_page=500", 1, 100},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		got := parsePage(r)
		assert.Equal(t, tt.page, got.Page, tt.query)
		assert.Equal(t, tt.perPage, got.PerPage, tt.query)
	}
}

func TestActorFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, usecase.Actor{}, actorFromRequest(r))

	id := uuid.New()
	r = r.WithContext(utils.SetUserContext(r.Context(), id, "host"))

	actor := actorFromRequest(r)
	assert.Equal(t, id, actor.UserID)
	assert.Equal(t, "host", string(actor.Role))
}

// stubBookings implements the booking endpoints exercised here; other
// methods panic through the nil embedded interface
type stubBookings struct {
	usecase.BookingService

	payload   []byte
	signature string
	webhook   error

	actor    usecase.Actor
	checkout *request.CheckoutRequest
}

func (s *stubBookings) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	s.payload = payload
	s.signature = signature
	return s.webhook
}

func (s *stubBookings) CreateCheckout(ctx context.Context, actor usecase.Actor, req *request.CheckoutRequest) (*response.CheckoutResponse, error) {
	s.actor = actor
	s.checkout = req
	return &response.CheckoutResponse{SessionID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

func TestStripeWebhook_PassesRawBodyAndSignature(t *testing.T) {
	stub := &stubBookings{}
	h := NewBookingHandler(stub, zap.NewNop())

	payload := `{"id":"evt_1","type":"checkout.session.completed"}`
	r := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(payload))
	r.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()

	h.StripeWebhook(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, string(stub.payload))
	assert.Equal(t, "t=1,v1=abc", stub.signature)
}

func TestStripeWebhook_BadSignatureIs400(t *testing.T) {
	stub := &stubBookings{webhook: fmt.Errorf("%w: no valid signature", usecase.ErrSignature)}
	h := NewBookingHandler(stub, zap.NewNop())

	r := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.StripeWebhook(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStripeWebhook_RejectsOversizedBody(t *testing.T) {
	stub := &stubBookings{}
	h := NewBookingHandler(stub, zap.NewNop())

	r := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(make([]byte, maxWebhookBytes+1)))
	rec := httptest.NewRecorder()

	h.StripeWebhook(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, stub.payload)
}

func TestCreateCheckout_ValidatesBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"experience_id":`},
		{"bad date", fmt.Sprintf(`{"experience_id":%q,"date":"06/01/2025","guests":2}`, uuid.NewString())},
		{"zero guests", fmt.Sprintf(`{"experience_id":%q,"date":"2025-06-01","guests":0}`, uuid.NewString())},
		{"bad experience id", `{"experience_id":"abc","date":"2025-06-01","guests":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubBookings{}
			h := NewBookingHandler(stub, zap.NewNop())

			r := httptest.NewRequest(http.MethodPost, "/api/bookings/checkout", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateCheckout(rec, r)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, stub.checkout)
		})
	}
}

func TestCreateCheckout_PassesActor(t *testing.T) {
	stub := &stubBookings{}
	h := NewBookingHandler(stub, zap.NewNop())

	userID := uuid.New()
	body := fmt.Sprintf(`{"experience_id":%q,"date":"2025-06-01","guests":2}`, uuid.NewString())
	r := httptest.NewRequest(http.MethodPost, "/api/bookings/checkout", strings.NewReader(body))
	r = r.WithContext(utils.SetUserContext(r.Context(), userID, "traveler"))
	rec := httptest.NewRecorder()

	h.CreateCheckout(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.checkout)
	assert.Equal(t, userID, stub.actor.UserID)
	assert.Equal(t, 2, stub.checkout.Guests)
	assert.Contains(t, rec.Body.String(), "cs_test_1")
}
