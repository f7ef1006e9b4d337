package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/internal/data/repository"
	"experience-market/internal/dto/request"
	"experience-market/pkg/mailer"
	"experience-market/pkg/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// memStore backs every fake repository. WithinTx snapshots it and
// restores the snapshot when the function fails.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]entity.User
	experiences   map[uuid.UUID]entity.Experience
	availability  map[string]entity.Availability
	bookings      map[uuid.UUID]entity.Booking
	cancellations map[uuid.UUID]entity.CancellationRequest
	apps          map[uuid.UUID]entity.HostApplication
	posts         map[uuid.UUID]entity.Post
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]entity.User{},
		experiences:   map[uuid.UUID]entity.Experience{},
		availability:  map[string]entity.Availability{},
		bookings:      map[uuid.UUID]entity.Booking{},
		cancellations: map[uuid.UUID]entity.CancellationRequest{},
		apps:          map[uuid.UUID]entity.HostApplication{},
		posts:         map[uuid.UUID]entity.Post{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memStore{
		users:         cloneMap(s.users),
		experiences:   cloneMap(s.experiences),
		availability:  cloneMap(s.availability),
		bookings:      cloneMap(s.bookings),
		cancellations: cloneMap(s.cancellations),
		apps:          cloneMap(s.apps),
		posts:         cloneMap(s.posts),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.experiences = snap.experiences
	s.availability = snap.availability
	s.bookings = snap.bookings
	s.cancellations = snap.cancellations
	s.apps = snap.apps
	s.posts = snap.posts
}

func newTestRepo(s *memStore) *repository.Repository {
	repo := &repository.Repository{
		User:            memUsers{s},
		Experience:      memExperiences{s},
		Availability:    memAvailability{s},
		Booking:         memBookings{s},
		Cancellation:    memCancellations{s},
		HostApplication: memApps{s},
		Post:            memPosts{s},
	}
	repo.Tx = memTx{store: s, repo: repo}
	return repo
}

type memTx struct {
	store *memStore
	repo  *repository.Repository
}

func (t memTx) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	snap := t.store.snapshot()
	if err := fn(t.repo); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ---- users ----

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.ExternalID == u.ExternalID {
			return nil
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) FindByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ExternalID == externalID {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) filter(role string) []*entity.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if role == "" || string(u.Role) == role {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memUsers) FindAll(ctx context.Context, role string, limit, offset int) ([]*entity.User, error) {
	return page(r.filter(role), limit, offset), nil
}

func (r memUsers) Count(ctx context.Context, role string) (int64, error) {
	return int64(len(r.filter(role))), nil
}

func (r memUsers) UpdateProfile(ctx context.Context, id uuid.UUID, email, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.Email, u.Name, u.UpdatedAt = email, name, time.Now()
	r.s.users[id] = u
	return nil
}

func (r memUsers) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole, synced bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.Role, u.RoleSynced, u.UpdatedAt = role, synced, time.Now()
	r.s.users[id] = u
	return nil
}

func (r memUsers) FindRoleUnsynced(ctx context.Context, limit int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if !u.RoleSynced {
			u := u
			out = append(out, &u)
		}
	}
	return page(out, limit, 0), nil
}

func (r memUsers) MarkRoleSynced(ctx context.Context, id uuid.UUID, role entity.UserRole) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.Role != role || u.RoleSynced {
		return false, nil
	}
	u.RoleSynced = true
	r.s.users[id] = u
	return true, nil
}

// ---- experiences ----

type memExperiences struct{ s *memStore }

func (r memExperiences) Create(ctx context.Context, e *entity.Experience) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.experiences[e.ID] = *e
	return nil
}

func (r memExperiences) FindByID(ctx context.Context, id uuid.UUID) (*entity.Experience, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.experiences[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r memExperiences) filter(f repository.ExperienceFilter) []*entity.Experience {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Experience
	for _, e := range r.s.experiences {
		if f.HostID != uuid.Nil && e.HostID != f.HostID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(e.Location), strings.ToLower(f.Location)) {
			continue
		}
		e := e
		out = append(out, &e)
	}
	return out
}

func (r memExperiences) FindAll(ctx context.Context, f repository.ExperienceFilter, limit, offset int) ([]*entity.Experience, error) {
	return page(r.filter(f), limit, offset), nil
}

func (r memExperiences) Count(ctx context.Context, f repository.ExperienceFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

func (r memExperiences) Update(ctx context.Context, e *entity.Experience) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.experiences[e.ID]; !ok {
		return errors.New("experience not found")
	}
	r.s.experiences[e.ID] = *e
	return nil
}

func (r memExperiences) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ExperienceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.experiences[id]
	if !ok {
		return errors.New("experience not found")
	}
	e.Status = status
	r.s.experiences[id] = e
	return nil
}

func (r memExperiences) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.experiences, id)
	return nil
}

// ---- availability ----

type memAvailability struct{ s *memStore }

func availabilityKey(id uuid.UUID, date string) string { return id.String() + "|" + date }

func (r memAvailability) FindByDate(ctx context.Context, id uuid.UUID, date string) (*entity.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.availability[availabilityKey(id, date)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAvailability) FindRange(ctx context.Context, id uuid.UUID, from, to string) ([]*entity.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Availability
	for _, a := range r.s.availability {
		if a.ExperienceID == id && a.Date >= from && a.Date <= to {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r memAvailability) Upsert(ctx context.Context, id uuid.UUID, date string, status entity.AvailabilityStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := availabilityKey(id, date)
	a, ok := r.s.availability[key]
	if ok && a.Status == entity.AvailabilityBooked {
		return false, nil
	}
	if !ok {
		a = entity.Availability{ExperienceID: id, Date: date}
	}
	a.Status = status
	r.s.availability[key] = a
	return true, nil
}

func (r memAvailability) MarkBooked(ctx context.Context, id uuid.UUID, date string, guests int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := availabilityKey(id, date)
	a, ok := r.s.availability[key]
	if !ok {
		a = entity.Availability{ExperienceID: id, Date: date}
	}
	a.Status = entity.AvailabilityBooked
	a.BookedGuests += guests
	r.s.availability[key] = a
	return nil
}

// ---- bookings ----

type memBookings struct{ s *memStore }

func (r memBookings) Create(ctx context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.bookings {
		if existing.CheckoutSessionID == b.CheckoutSessionID {
			return errors.New("duplicate checkout session id")
		}
	}
	r.s.bookings[b.ID] = *b
	return nil
}

func (r memBookings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r memBookings) FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.CheckoutSessionID == sessionID {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r memBookings) filter(f repository.BookingFilter) []*entity.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if f.TravelerID != uuid.Nil && b.TravelerID != f.TravelerID {
			continue
		}
		if f.ExperienceID != uuid.Nil && b.ExperienceID != f.ExperienceID {
			continue
		}
		if f.HostID != uuid.Nil && r.s.experiences[b.ExperienceID].HostID != f.HostID {
			continue
		}
		if f.PaidOnly && !b.Paid {
			continue
		}
		b := b
		out = append(out, &b)
	}
	return out
}

func (r memBookings) FindAll(ctx context.Context, f repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	return page(r.filter(f), limit, offset), nil
}

func (r memBookings) Count(ctx context.Context, f repository.BookingFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

func (r memBookings) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Paid {
		return false, nil
	}
	b.Paid = true
	b.PaidAt = &paidAt
	r.s.bookings[id] = b
	return true, nil
}

func (r memBookings) CountByExperience(ctx context.Context, id uuid.UUID) (int64, error) {
	return int64(len(r.filter(repository.BookingFilter{ExperienceID: id}))), nil
}

// ---- cancellation requests ----

type memCancellations struct{ s *memStore }

func (r memCancellations) Create(ctx context.Context, c *entity.CancellationRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.cancellations {
		if existing.BookingID == c.BookingID {
			return errors.New("duplicate booking id")
		}
	}
	r.s.cancellations[c.ID] = *c
	return nil
}

func (r memCancellations) FindByID(ctx context.Context, id uuid.UUID) (*entity.CancellationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cancellations[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCancellations) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.CancellationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.cancellations {
		if c.BookingID == bookingID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCancellations) filter(processed *bool) []*entity.CancellationRequest {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CancellationRequest
	for _, c := range r.s.cancellations {
		if processed != nil && c.Processed != *processed {
			continue
		}
		c := c
		out = append(out, &c)
	}
	return out
}

func (r memCancellations) FindAll(ctx context.Context, processed *bool, limit, offset int) ([]*entity.CancellationRequest, error) {
	return page(r.filter(processed), limit, offset), nil
}

func (r memCancellations) Count(ctx context.Context, processed *bool) (int64, error) {
	return int64(len(r.filter(processed))), nil
}

func (r memCancellations) MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cancellations[id]
	if !ok || c.Processed {
		return false, nil
	}
	c.Processed = true
	c.ProcessedAt = &at
	r.s.cancellations[id] = c
	return true, nil
}

// ---- host applications ----

type memApps struct{ s *memStore }

func (r memApps) Create(ctx context.Context, a *entity.HostApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.apps {
		if existing.UserID == a.UserID && existing.Status != entity.ApplicationRejected {
			return errors.New("open application exists")
		}
	}
	r.s.apps[a.ID] = *a
	return nil
}

func (r memApps) FindByID(ctx context.Context, id uuid.UUID) (*entity.HostApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memApps) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.HostApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.HostApplication
	for _, a := range r.s.apps {
		if a.UserID == userID && (latest == nil || !a.CreatedAt.Before(latest.CreatedAt)) {
			a := a
			latest = &a
		}
	}
	return latest, nil
}

func (r memApps) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.HostApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.apps {
		if a.UserID == userID && a.Status != entity.ApplicationRejected {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r memApps) filter(status entity.ApplicationStatus) []*entity.HostApplication {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.HostApplication
	for _, a := range r.s.apps {
		if status == "" || a.Status == status {
			a := a
			out = append(out, &a)
		}
	}
	return out
}

func (r memApps) FindAll(ctx context.Context, status entity.ApplicationStatus, limit, offset int) ([]*entity.HostApplication, error) {
	return page(r.filter(status), limit, offset), nil
}

func (r memApps) Count(ctx context.Context, status entity.ApplicationStatus) (int64, error) {
	return int64(len(r.filter(status))), nil
}

func (r memApps) Review(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus, note string, reviewer uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok || a.Status != entity.ApplicationPending {
		return false, nil
	}
	a.Status, a.ReviewNote, a.ReviewedBy, a.ReviewedAt = status, note, &reviewer, &at
	r.s.apps[id] = a
	return true, nil
}

// ---- posts ----

type memPosts struct{ s *memStore }

func (r memPosts) Create(ctx context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.posts[p.ID] = *p
	return nil
}

func (r memPosts) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memPosts) FindBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.posts {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r memPosts) filter(publishedOnly bool) []*entity.Post {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Post
	for _, p := range r.s.posts {
		if publishedOnly && !p.Published {
			continue
		}
		p := p
		out = append(out, &p)
	}
	return out
}

func (r memPosts) FindAll(ctx context.Context, publishedOnly bool, limit, offset int) ([]*entity.Post, error) {
	return page(r.filter(publishedOnly), limit, offset), nil
}

func (r memPosts) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	return int64(len(r.filter(publishedOnly))), nil
}

func (r memPosts) Update(ctx context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.posts[p.ID] = *p
	return nil
}

func (r memPosts) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.posts, id)
	return nil
}

// ---- externals ----

const goodSignature = "t=1,v1=good"

type fakeGateway struct {
	mu       sync.Mutex
	sessions []payment.CheckoutParams
	err      error
	event    *payment.Event
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, p payment.CheckoutParams) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.sessions = append(g.sessions, p)
	id := "cs_test_" + uuid.NewString()[:8]
	return &payment.CheckoutSession{ID: id, URL: "https://checkout.example.com/" + id}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	if signature != goodSignature {
		return nil, payment.ErrInvalidSignature
	}
	if g.event == nil {
		return nil, payment.ErrInvalidPayload
	}
	return g.event, nil
}

// recordingMailer captures sent messages
type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, len(m.sent))
	for i, msg := range m.sent {
		kinds[i] = msg.Kind
	}
	return kinds
}

type fakeRoleWriter struct {
	mu    sync.Mutex
	calls map[string]string
	fail  map[string]bool
}

func (w *fakeRoleWriter) UpdateRole(ctx context.Context, externalID, role string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail[externalID] {
		return errors.New("identity provider unavailable")
	}
	if w.calls == nil {
		w.calls = map[string]string{}
	}
	w.calls[externalID] = role
	return nil
}

// ---- fixture ----

type fixture struct {
	store   *memStore
	repo    *repository.Repository
	gateway *fakeGateway
	mail    *recordingMailer
	roles   *fakeRoleWriter
	svc     *Service
}

func newFixture() *fixture {
	store := newMemStore()
	repo := newTestRepo(store)
	f := &fixture{
		store:   store,
		repo:    repo,
		gateway: &fakeGateway{},
		mail:    &recordingMailer{},
		roles:   &fakeRoleWriter{},
	}

	f.svc = NewService(repo, Externals{
		Payments: f.gateway,
		Roles:    f.roles,
		Mailer:   f.mail,
	}, zap.NewNop())

	f.svc.User.(*userService).now = fixedClock
	f.svc.Experience.(*experienceService).now = fixedClock
	f.svc.Availability.(*availabilityService).now = fixedClock
	f.svc.Booking.(*bookingService).now = fixedClock
	f.svc.Cancellation.(*cancellationService).now = fixedClock
	f.svc.HostApplication.(*hostApplicationService).now = fixedClock
	f.svc.Post.(*postService).now = fixedClock

	return f
}

func (f *fixture) addUser(role entity.UserRole) Actor {
	id := uuid.New()
	f.store.users[id] = entity.User{
		Base:       entity.Base{ID: id, CreatedAt: testNow, UpdatedAt: testNow},
		ExternalID: "idp|" + id.String()[:8],
		Email:      string(role) + "-" + id.String()[:8] + "@example.com",
		Name:       strings.ToUpper(string(role[:1])) + string(role[1:]),
		Role:       role,
		RoleSynced: true,
	}
	return Actor{UserID: id, Role: role}
}

func (f *fixture) addExperience(host Actor, maxGuests int, price float64) uuid.UUID {
	id := uuid.New()
	f.store.experiences[id] = entity.Experience{
		Base:      entity.Base{ID: id, CreatedAt: testNow, UpdatedAt: testNow},
		HostID:    host.UserID,
		TitleEN:   "Mezcal tasting",
		TitleES:   "Cata de mezcal",
		Location:  "Oaxaca",
		MaxGuests: maxGuests,
		PriceUSD:  price,
		Status:    entity.ExperienceStatusActive,
	}
	return id
}

func (f *fixture) day(id uuid.UUID, date string) (entity.Availability, bool) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	a, ok := f.store.availability[availabilityKey(id, date)]
	return a, ok
}

func (f *fixture) bookingsFor(id uuid.UUID) []entity.Booking {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.store.bookings {
		if b.ExperienceID == id {
			out = append(out, b)
		}
	}
	return out
}

// completedEvent builds the verified event the gateway would return for a
// paid checkout session
func completedEvent(sessionID string, meta payment.BookingMetadata) *payment.Event {
	return &payment.Event{
		ID:   "evt_" + sessionID,
		Type: payment.EventCheckoutCompleted,
		Session: &payment.SessionEvent{
			ID:            sessionID,
			PaymentStatus: "paid",
			Metadata:      meta,
		},
	}
}

func defaultPage() request.PaginatedRequest {
	return request.PaginatedRequest{Page: 1, PerPage: 20}
}
