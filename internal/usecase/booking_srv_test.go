package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"experience-market/internal/data/entity"
	"experience-market/internal/dto/request"
	"experience-market/pkg/payment"
	"experience-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkout(t *testing.T, f *fixture, traveler Actor, expID uuid.UUID, date string, guests int) (string, error) {
	t.Helper()
	resp, err := f.svc.Booking.CreateCheckout(context.Background(), traveler, &request.CheckoutRequest{
		ExperienceID: expID.String(),
		Date:         date,
		Guests:       guests,
	})
	if err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func metadataFor(expID uuid.UUID, traveler Actor, date string, guests int, amount float64) payment.BookingMetadata {
	return payment.BookingMetadata{
		ExperienceID: expID.String(),
		TravelerID:   traveler.UserID.String(),
		Guests:       guests,
		Date:         date,
		Amount:       amount,
	}
}

func TestCreateCheckout_GuestsOverMaxRejected(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	_, err := checkout(t, f, traveler, expID, "2025-06-10", 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, f.bookingsFor(expID))
	assert.Empty(t, f.gateway.sessions)
	_, ok := f.day(expID, "2025-06-10")
	assert.False(t, ok)
}

func TestCreateCheckout_CreatesUnpaidBooking(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	resp, err := f.svc.Booking.CreateCheckout(context.Background(), traveler, &request.CheckoutRequest{
		ExperienceID: expID.String(),
		Date:         "2025-06-10",
		Guests:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.TotalAmount)
	assert.NotEmpty(t, resp.URL)

	require.Len(t, f.gateway.sessions, 1)
	params := f.gateway.sessions[0]
	assert.Equal(t, int64(5000), params.UnitCents)
	assert.Equal(t, int64(2), params.Quantity)
	assert.Equal(t, "Mezcal tasting", params.Title)
	assert.Equal(t, traveler.UserID.String(), params.Metadata.TravelerID)
	assert.Equal(t, 2, params.Metadata.Guests)

	bookings := f.bookingsFor(expID)
	require.Len(t, bookings, 1)
	assert.False(t, bookings[0].Paid)
	assert.Equal(t, resp.SessionID, bookings[0].CheckoutSessionID)
	assert.Equal(t, 100.0, bookings[0].TotalAmount)

	_, ok := f.day(expID, "2025-06-10")
	assert.False(t, ok, "availability must not change before payment")
}

func TestCreateCheckout_TotalMatchesChargedCents(t *testing.T) {
	tests := []struct {
		price  float64
		guests int
		total  float64
	}{
		{1.15, 3, 3.45},
		{19.99, 7, 139.93},
		{0.1, 3, 0.3},
	}

	for _, tt := range tests {
		f := newFixture()
		host := f.addUser(entity.RoleHost)
		traveler := f.addUser(entity.RoleTraveler)
		expID := f.addExperience(host, 10, tt.price)

		resp, err := f.svc.Booking.CreateCheckout(context.Background(), traveler, &request.CheckoutRequest{
			ExperienceID: expID.String(),
			Date:         "2025-06-10",
			Guests:       tt.guests,
		})
		require.NoError(t, err)

		require.Len(t, f.gateway.sessions, 1)
		params := f.gateway.sessions[0]
		charged := params.UnitCents * params.Quantity

		assert.Equal(t, tt.total, resp.TotalAmount)
		assert.Equal(t, tt.total, params.Metadata.Amount)
		assert.Equal(t, charged, utils.ToCents(resp.TotalAmount))

		bookings := f.bookingsFor(expID)
		require.Len(t, bookings, 1)
		assert.Equal(t, tt.total, bookings[0].TotalAmount)
	}
}

func TestCreateCheckout_ReferencesUniqueWithinOneSecond(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 500, 10)

	// the fixture clock is frozen, so every checkout happens in the same second
	for i := 0; i < 200; i++ {
		_, err := checkout(t, f, traveler, expID, "2025-06-10", 1)
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for _, b := range f.bookingsFor(expID) {
		assert.False(t, seen[b.Reference], "duplicate reference %s", b.Reference)
		seen[b.Reference] = true
		assert.True(t, strings.HasSuffix(b.Reference, strings.ToUpper(b.ID.String()[24:])))
	}
	assert.Len(t, seen, 200)
}

func TestCreateCheckout_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture, expID uuid.UUID)
		date    string
		guests  int
		wantErr error
	}{
		{
			name:    "past date",
			date:    "2025-04-30",
			guests:  1,
			wantErr: ErrValidation,
		},
		{
			name:    "malformed date",
			date:    "2025-6-1",
			guests:  1,
			wantErr: ErrValidation,
		},
		{
			name:    "zero guests",
			date:    "2025-06-10",
			guests:  0,
			wantErr: ErrValidation,
		},
		{
			name: "blocked date",
			setup: func(f *fixture, expID uuid.UUID) {
				f.store.availability[availabilityKey(expID, "2025-06-10")] = entity.Availability{
					ExperienceID: expID, Date: "2025-06-10", Status: entity.AvailabilityBlocked,
				}
			},
			date:    "2025-06-10",
			guests:  1,
			wantErr: ErrConflict,
		},
		{
			name: "not enough remaining capacity",
			setup: func(f *fixture, expID uuid.UUID) {
				f.store.availability[availabilityKey(expID, "2025-06-10")] = entity.Availability{
					ExperienceID: expID, Date: "2025-06-10", Status: entity.AvailabilityBooked, BookedGuests: 3,
				}
			},
			date:    "2025-06-10",
			guests:  2,
			wantErr: ErrConflict,
		},
		{
			name: "inactive experience",
			setup: func(f *fixture, expID uuid.UUID) {
				exp := f.store.experiences[expID]
				exp.Status = entity.ExperienceStatusInactive
				f.store.experiences[expID] = exp
			},
			date:    "2025-06-10",
			guests:  1,
			wantErr: ErrConflict,
		},
		{
			name: "payment provider failure",
			setup: func(f *fixture, expID uuid.UUID) {
				f.gateway.err = errors.New("stripe down")
			},
			date:    "2025-06-10",
			guests:  1,
			wantErr: ErrPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			host := f.addUser(entity.RoleHost)
			traveler := f.addUser(entity.RoleTraveler)
			expID := f.addExperience(host, 4, 50)
			if tt.setup != nil {
				tt.setup(f, expID)
			}

			_, err := checkout(t, f, traveler, expID, tt.date, tt.guests)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, f.bookingsFor(expID))
		})
	}
}

func TestCreateCheckout_UnknownExperience(t *testing.T) {
	f := newFixture()
	traveler := f.addUser(entity.RoleTraveler)

	_, err := checkout(t, f, traveler, uuid.New(), "2025-06-10", 1)

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateCheckout_RequiresSignIn(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	expID := f.addExperience(host, 4, 50)

	_, err := checkout(t, f, Actor{}, expID, "2025-06-10", 1)

	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestHandleWebhook_ConfirmsBookingAndBooksDay(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	sessionID, err := checkout(t, f, traveler, expID, "2025-06-10", 2)
	require.NoError(t, err)

	f.gateway.event = completedEvent(sessionID, metadataFor(expID, traveler, "2025-06-10", 2, 100))
	require.NoError(t, f.svc.Booking.HandleWebhook(context.Background(), []byte(`{}`), goodSignature))

	bookings := f.bookingsFor(expID)
	require.Len(t, bookings, 1)
	assert.True(t, bookings[0].Paid)
	assert.NotNil(t, bookings[0].PaidAt)

	day, ok := f.day(expID, "2025-06-10")
	require.True(t, ok)
	assert.Equal(t, entity.AvailabilityBooked, day.Status)
	assert.Equal(t, 2, day.BookedGuests)

	month, err := f.svc.Availability.GetMonth(context.Background(), expID.String(), &request.MonthAvailabilityRequest{Month: "2025-06"})
	require.NoError(t, err)
	assert.Equal(t, 2, month.Days[9].Remaining)

	assert.ElementsMatch(t, []string{KindBookingConfirmed, KindBookingReceived}, f.mail.kinds())
}

func TestHandleWebhook_RedeliveryIsNoop(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	sessionID, err := checkout(t, f, traveler, expID, "2025-06-10", 2)
	require.NoError(t, err)

	f.gateway.event = completedEvent(sessionID, metadataFor(expID, traveler, "2025-06-10", 2, 100))
	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.Booking.HandleWebhook(context.Background(), []byte(`{}`), goodSignature))
	}

	assert.Len(t, f.bookingsFor(expID), 1)
	day, _ := f.day(expID, "2025-06-10")
	assert.Equal(t, 2, day.BookedGuests)
	assert.Len(t, f.mail.kinds(), 2, "notifications are sent once")
}

func TestHandleWebhook_AccumulatesGuestsAcrossBookings(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	first := f.addUser(entity.RoleTraveler)
	second := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 6, 20)

	for _, traveler := range []Actor{first, second} {
		sessionID, err := checkout(t, f, traveler, expID, "2025-07-01", 3)
		require.NoError(t, err)
		f.gateway.event = completedEvent(sessionID, metadataFor(expID, traveler, "2025-07-01", 3, 60))
		require.NoError(t, f.svc.Booking.HandleWebhook(context.Background(), nil, goodSignature))
	}

	day, _ := f.day(expID, "2025-07-01")
	assert.Equal(t, 6, day.BookedGuests)

	_, err := checkout(t, f, first, expID, "2025-07-01", 1)
	assert.True(t, errors.Is(err, ErrConflict), "a full day rejects further checkouts")
}

func TestHandleWebhook_InsertsMissingBookingFromMetadata(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	f.gateway.event = completedEvent("cs_orphan", metadataFor(expID, traveler, "2025-06-12", 3, 150))
	require.NoError(t, f.svc.Booking.HandleWebhook(context.Background(), nil, goodSignature))

	bookings := f.bookingsFor(expID)
	require.Len(t, bookings, 1)
	assert.True(t, bookings[0].Paid)
	assert.Equal(t, "cs_orphan", bookings[0].CheckoutSessionID)
	assert.Equal(t, traveler.UserID, bookings[0].TravelerID)
	assert.Equal(t, 150.0, bookings[0].TotalAmount)

	day, _ := f.day(expID, "2025-06-12")
	assert.Equal(t, 3, day.BookedGuests)
}

func TestHandleWebhook_BooksBlockedDayOnly(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	_, err := f.svc.Availability.BulkUpdate(context.Background(), host, expID.String(), &request.BulkAvailabilityRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-03",
		Status:    "blocked",
	})
	require.NoError(t, err)

	f.gateway.event = completedEvent("cs_blocked_day", metadataFor(expID, traveler, "2025-06-02", 2, 100))
	require.NoError(t, f.svc.Booking.HandleWebhook(context.Background(), nil, goodSignature))

	tests := []struct {
		date   string
		status entity.AvailabilityStatus
		guests int
	}{
		{"2025-06-01", entity.AvailabilityBlocked, 0},
		{"2025-06-02", entity.AvailabilityBooked, 2},
		{"2025-06-03", entity.AvailabilityBlocked, 0},
	}
	for _, tt := range tests {
		day, ok := f.day(expID, tt.date)
		require.True(t, ok, tt.date)
		assert.Equal(t, tt.status, day.Status, tt.date)
		assert.Equal(t, tt.guests, day.BookedGuests, tt.date)
	}

	bookings := f.bookingsFor(expID)
	require.Len(t, bookings, 1)
	assert.True(t, bookings[0].Paid)
}

func TestHandleWebhook_UnknownExperienceRollsBack(t *testing.T) {
	f := newFixture()
	traveler := f.addUser(entity.RoleTraveler)
	missing := uuid.New()

	f.gateway.event = completedEvent("cs_missing", metadataFor(missing, traveler, "2025-06-12", 1, 10))
	err := f.svc.Booking.HandleWebhook(context.Background(), nil, goodSignature)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.store.availability)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	f := newFixture()

	err := f.svc.Booking.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=forged")

	assert.True(t, errors.Is(err, ErrSignature))
}

func TestHandleWebhook_IgnoredEvents(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	sessionID, err := checkout(t, f, traveler, expID, "2025-06-10", 1)
	require.NoError(t, err)
	meta := metadataFor(expID, traveler, "2025-06-10", 1, 50)

	events := []*payment.Event{
		{ID: "evt_1", Type: payment.EventCheckoutExpired, Session: &payment.SessionEvent{ID: sessionID, Metadata: meta}},
		{ID: "evt_2", Type: payment.EventCheckoutCompleted, Session: &payment.SessionEvent{ID: sessionID, PaymentStatus: "unpaid", Metadata: meta}},
		{ID: "evt_3", Type: "payment_intent.created"},
	}
	for _, ev := range events {
		f.gateway.event = ev
		require.NoError(t, f.svc.Booking.HandleWebhook(context.Background(), nil, goodSignature))
	}

	bookings := f.bookingsFor(expID)
	require.Len(t, bookings, 1)
	assert.False(t, bookings[0].Paid)
	_, ok := f.day(expID, "2025-06-10")
	assert.False(t, ok)
}

func TestBookingVisibility(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	otherHost := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	stranger := f.addUser(entity.RoleTraveler)
	admin := f.addUser(entity.RoleAdmin)
	expID := f.addExperience(host, 4, 50)

	resp, err := f.svc.Booking.CreateCheckout(context.Background(), traveler, &request.CheckoutRequest{
		ExperienceID: expID.String(), Date: "2025-06-10", Guests: 1,
	})
	require.NoError(t, err)

	for _, actor := range []Actor{traveler, host, admin} {
		got, err := f.svc.Booking.GetBookingByID(context.Background(), actor, resp.BookingID)
		require.NoError(t, err)
		assert.Equal(t, "Mezcal tasting", got.ExperienceTitle)
	}

	_, err = f.svc.Booking.GetBookingByID(context.Background(), stranger, resp.BookingID)
	assert.True(t, errors.Is(err, ErrForbidden))

	hostList, err := f.svc.Booking.GetHostBookings(context.Background(), host, &request.BookingListRequest{PaginatedRequest: defaultPage()})
	require.NoError(t, err)
	assert.Len(t, hostList.Data, 1)

	otherList, err := f.svc.Booking.GetHostBookings(context.Background(), otherHost, &request.BookingListRequest{PaginatedRequest: defaultPage()})
	require.NoError(t, err)
	assert.Empty(t, otherList.Data)

	page := defaultPage()
	mine, err := f.svc.Booking.GetMyBookings(context.Background(), traveler, &page)
	require.NoError(t, err)
	assert.Len(t, mine.Data, 1)
}

func TestMessageTraveler(t *testing.T) {
	f := newFixture()
	host := f.addUser(entity.RoleHost)
	traveler := f.addUser(entity.RoleTraveler)
	expID := f.addExperience(host, 4, 50)

	resp, err := f.svc.Booking.CreateCheckout(context.Background(), traveler, &request.CheckoutRequest{
		ExperienceID: expID.String(), Date: "2025-06-10", Guests: 1,
	})
	require.NoError(t, err)

	msg := &request.HostMessageRequest{Subject: "Meeting point", Message: "See you at the zocalo at 9am"}

	err = f.svc.Booking.MessageTraveler(context.Background(), traveler, resp.BookingID, msg)
	assert.True(t, errors.Is(err, ErrForbidden))

	require.NoError(t, f.svc.Booking.MessageTraveler(context.Background(), host, resp.BookingID, msg))
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, KindHostMessage, f.mail.sent[0].Kind)
	assert.Equal(t, []string{f.store.users[traveler.UserID].Email}, f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].Text, "zocalo")
}
