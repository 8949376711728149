package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"propman/constants"
	apperrors "propman/errors"
	"propman/models"
	"propman/repositories"
)

// memDB kho dữ liệu trong bộ nhớ cho test service, không cần postgres
type memDB struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]*models.User
	orgs       map[uint]*models.Organization
	members    []*models.Membership
	properties map[uint]*models.Property
	units      map[uint]*models.Unit
	guests     map[uint]*models.Guest
	bookings   map[uint]*models.Booking
	tenancies  map[uint]*models.Tenancy
	invoices   map[uint]*models.Invoice
	payments   []*models.Payment

	failBlocking error
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[uint]*models.User{},
		orgs:       map[uint]*models.Organization{},
		properties: map[uint]*models.Property{},
		units:      map[uint]*models.Unit{},
		guests:     map[uint]*models.Guest{},
		bookings:   map[uint]*models.Booking{},
		tenancies:  map[uint]*models.Tenancy{},
		invoices:   map[uint]*models.Invoice{},
	}
}

func (db *memDB) id() uint {
	db.nextID++
	return db.nextID
}

func notFound(kind string, id uint) error {
	return fmt.Errorf("%w: %s %d", apperrors.ErrRecordNotFound, kind, id)
}

// memTx tuần tự hóa các transaction, tương đương khóa dòng FOR UPDATE
type memTx struct {
	mu sync.Mutex
}

func (t *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type allowAll struct{}

func (allowAll) Has(context.Context, Caller, uint, Resource, Action) (bool, error) { return true, nil }

type denyAll struct{}

func (denyAll) Has(context.Context, Caller, uint, Resource, Action) (bool, error) { return false, nil }

// recordingCache ghi lại các tag bị hủy
type recordingCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (c *recordingCache) Set(context.Context, string, any, time.Duration, ...string) error {
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, tags...)
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	orgs     []uint
	messages []string
}

func (n *recordingNotifier) Publish(orgID uint, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orgs = append(n.orgs, orgID)
	n.messages = append(n.messages, message)
	return nil
}

// users

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: users_email", apperrors.ErrDuplicateRecord)
		}
	}
	u.ID = s.db.id()
	cp := *u
	s.db.users[u.ID] = &cp
	return nil
}

func (s memUsers) Save(_ context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *u
	s.db.users[u.ID] = &cp
	return nil
}

func (s memUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", 0)
}

func (s memUsers) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", 0)
}

func (s memUsers) CreateOrganization(_ context.Context, org *models.Organization, owner *models.Membership) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	org.ID = s.db.id()
	cp := *org
	s.db.orgs[org.ID] = &cp
	owner.ID = s.db.id()
	owner.OrganizationID = org.ID
	m := *owner
	s.db.members = append(s.db.members, &m)
	return nil
}

func (s memUsers) FindOrganization(_ context.Context, id uint) (*models.Organization, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orgs[id]
	if !ok {
		return nil, notFound("organization", id)
	}
	cp := *o
	return &cp, nil
}

func (s memUsers) AddMembership(_ context.Context, m *models.Membership) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.members {
		if existing.UserID == m.UserID && existing.OrganizationID == m.OrganizationID {
			return fmt.Errorf("%w: idx_member_org_user", apperrors.ErrDuplicateRecord)
		}
	}
	m.ID = s.db.id()
	if m.Status == 0 {
		m.Status = constants.UserStatusActive
	}
	cp := *m
	s.db.members = append(s.db.members, &cp)
	return nil
}

func (s memUsers) FindMembership(_ context.Context, userID, orgID uint) (*models.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, m := range s.db.members {
		if m.UserID == userID && m.OrganizationID == orgID {
			cp := *m
			if u, ok := s.db.users[userID]; ok {
				user := *u
				cp.User = &user
			}
			return &cp, nil
		}
	}
	return nil, notFound("membership", userID)
}

func (s memUsers) ListMemberships(_ context.Context, userID uint) ([]models.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Membership
	for _, m := range s.db.members {
		if m.UserID != userID {
			continue
		}
		cp := *m
		if o, ok := s.db.orgs[m.OrganizationID]; ok {
			org := *o
			cp.Organization = &org
		}
		out = append(out, cp)
	}
	return out, nil
}

// properties & units

type memProperties struct{ db *memDB }

func (s memProperties) Create(_ context.Context, p *models.Property) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p.ID = s.db.id()
	if p.Status == "" {
		p.Status = constants.PropertyStatusAvailable
	}
	cp := *p
	s.db.properties[p.ID] = &cp
	return nil
}

func (s memProperties) Save(_ context.Context, p *models.Property) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *p
	s.db.properties[p.ID] = &cp
	return nil
}

func (s memProperties) FindByID(_ context.Context, id uint) (*models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.properties[id]
	if !ok {
		return nil, notFound("property", id)
	}
	cp := *p
	return &cp, nil
}

func (s memProperties) LockByID(ctx context.Context, id uint) (*models.Property, error) {
	return s.FindByID(ctx, id)
}

func (s memProperties) ListByOrganization(_ context.Context, orgID uint) ([]models.Property, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Property
	for _, p := range s.db.properties {
		if p.OrganizationID == orgID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memProperties) UpdateStatus(_ context.Context, id uint, status constants.PropertyStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.properties[id]
	if !ok {
		return notFound("property", id)
	}
	p.Status = status
	return nil
}

func (s memProperties) CreateUnit(_ context.Context, u *models.Unit) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u.ID = s.db.id()
	if u.Status == "" {
		u.Status = constants.UnitStatusVacant
	}
	cp := *u
	s.db.units[u.ID] = &cp
	return nil
}

func (s memProperties) FindUnit(_ context.Context, id uint) (*models.Unit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.units[id]
	if !ok {
		return nil, notFound("unit", id)
	}
	cp := *u
	if p, ok := s.db.properties[u.PropertyID]; ok {
		prop := *p
		cp.Property = &prop
	}
	return &cp, nil
}

func (s memProperties) LockUnit(ctx context.Context, id uint) (*models.Unit, error) {
	u, err := s.FindUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Property = nil
	return u, nil
}

func (s memProperties) ListUnits(_ context.Context, propertyID uint) ([]models.Unit, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Unit
	for _, u := range s.db.units {
		if u.PropertyID == propertyID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memProperties) UpdateUnitStatus(_ context.Context, id uint, status constants.UnitStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.units[id]
	if !ok {
		return notFound("unit", id)
	}
	u.Status = status
	return nil
}

// guests

type memGuests struct{ db *memDB }

func (s memGuests) Create(_ context.Context, g *models.Guest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	g.ID = s.db.id()
	cp := *g
	s.db.guests[g.ID] = &cp
	return nil
}

func (s memGuests) Save(_ context.Context, g *models.Guest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *g
	s.db.guests[g.ID] = &cp
	return nil
}

func (s memGuests) FindByID(_ context.Context, id uint) (*models.Guest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	g, ok := s.db.guests[id]
	if !ok {
		return nil, notFound("guest", id)
	}
	cp := *g
	return &cp, nil
}

func (s memGuests) LockByID(ctx context.Context, id uint) (*models.Guest, error) {
	return s.FindByID(ctx, id)
}

func (s memGuests) ListByOrganization(_ context.Context, orgID uint, search string, _ repositories.Page) ([]models.Guest, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Guest
	for _, g := range s.db.guests {
		if g.OrganizationID != orgID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

// bookings

type memBookings struct{ db *memDB }

func (s memBookings) withGuest(b *models.Booking) models.Booking {
	cp := *b
	if g, ok := s.db.guests[b.GuestID]; ok {
		guest := *g
		cp.Guest = &guest
	}
	return cp
}

func (s memBookings) Create(_ context.Context, b *models.Booking) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b.ID = s.db.id()
	cp := *b
	cp.Guest, cp.Property = nil, nil
	s.db.bookings[b.ID] = &cp
	return nil
}

func (s memBookings) Save(_ context.Context, b *models.Booking) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *b
	cp.Guest, cp.Property = nil, nil
	s.db.bookings[b.ID] = &cp
	return nil
}

func (s memBookings) FindByID(_ context.Context, id uint) (*models.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.bookings[id]
	if !ok {
		return nil, notFound("booking", id)
	}
	cp := s.withGuest(b)
	return &cp, nil
}

func (s memBookings) FindBlocking(_ context.Context, propertyID uint, statuses []string) ([]models.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failBlocking != nil {
		return nil, s.db.failBlocking
	}
	var out []models.Booking
	for _, b := range s.db.bookings {
		if b.PropertyID != propertyID {
			continue
		}
		for _, st := range statuses {
			if string(b.Status) == st {
				out = append(out, s.withGuest(b))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (s memBookings) FindInRange(_ context.Context, propertyID uint, from, to time.Time) ([]models.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Booking
	for _, b := range s.db.bookings {
		if b.PropertyID == propertyID && b.Status.Blocking() && b.CheckIn.Before(to) && b.CheckOut.After(from) {
			out = append(out, s.withGuest(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (s memBookings) List(_ context.Context, f repositories.BookingFilter) ([]models.Booking, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Booking
	for _, b := range s.db.bookings {
		if b.OrganizationID != f.OrganizationID {
			continue
		}
		if f.PropertyID != 0 && b.PropertyID != f.PropertyID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, s.withGuest(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s memBookings) ListCheckedInBefore(_ context.Context, before time.Time) ([]models.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Booking
	for _, b := range s.db.bookings {
		if b.Status == constants.BookingStatusCheckedIn && !b.CheckOut.After(before) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// tenancies

type memTenancies struct{ db *memDB }

func (s memTenancies) withTenant(t *models.Tenancy) models.Tenancy {
	cp := *t
	if u, ok := s.db.users[t.TenantID]; ok {
		user := *u
		cp.Tenant = &user
	}
	return cp
}

func (s memTenancies) Create(_ context.Context, t *models.Tenancy) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t.ID = s.db.id()
	cp := *t
	cp.Tenant, cp.Unit = nil, nil
	s.db.tenancies[t.ID] = &cp
	return nil
}

func (s memTenancies) Save(_ context.Context, t *models.Tenancy) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *t
	cp.Tenant, cp.Unit = nil, nil
	s.db.tenancies[t.ID] = &cp
	return nil
}

func (s memTenancies) FindByID(_ context.Context, id uint) (*models.Tenancy, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.tenancies[id]
	if !ok {
		return nil, notFound("tenancy", id)
	}
	cp := s.withTenant(t)
	return &cp, nil
}

func (s memTenancies) FindBlocking(_ context.Context, unitID uint, statuses []string) ([]models.Tenancy, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Tenancy
	for _, t := range s.db.tenancies {
		if t.UnitID != unitID {
			continue
		}
		for _, st := range statuses {
			if string(t.Status) == st {
				out = append(out, s.withTenant(t))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s memTenancies) List(_ context.Context, f repositories.TenancyFilter) ([]models.Tenancy, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Tenancy
	for _, t := range s.db.tenancies {
		if f.OrganizationID != 0 && t.OrganizationID != f.OrganizationID {
			continue
		}
		if f.TenantID != 0 && t.TenantID != f.TenantID {
			continue
		}
		if f.UnitID != 0 && t.UnitID != f.UnitID {
			continue
		}
		out = append(out, s.withTenant(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s memTenancies) ListActive(_ context.Context) ([]models.Tenancy, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Tenancy
	for _, t := range s.db.tenancies {
		if t.Status == constants.TenancyStatusActive {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memTenancies) ListEndedBefore(_ context.Context, before time.Time) ([]models.Tenancy, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Tenancy
	for _, t := range s.db.tenancies {
		if t.Status == constants.TenancyStatusActive && !t.EndDate.After(before) {
			out = append(out, *t)
		}
	}
	return out, nil
}

// invoices

type memInvoices struct{ db *memDB }

func (s memInvoices) Create(_ context.Context, inv *models.Invoice) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.invoices {
		if existing.TenancyID == inv.TenancyID && existing.Period == inv.Period {
			return fmt.Errorf("%w: idx_invoice_tenancy_period", apperrors.ErrDuplicateRecord)
		}
	}
	inv.ID = s.db.id()
	if inv.InvoiceCode == "" {
		inv.InvoiceCode = models.NewInvoiceCode(time.Now())
	}
	cp := *inv
	s.db.invoices[inv.ID] = &cp
	return nil
}

func (s memInvoices) Save(_ context.Context, inv *models.Invoice) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *inv
	cp.Payments = nil
	s.db.invoices[inv.ID] = &cp
	return nil
}

func (s memInvoices) FindByID(_ context.Context, id uint) (*models.Invoice, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	inv, ok := s.db.invoices[id]
	if !ok {
		return nil, notFound("invoice", id)
	}
	cp := *inv
	for _, p := range s.db.payments {
		if p.InvoiceID == id {
			cp.Payments = append(cp.Payments, *p)
		}
	}
	return &cp, nil
}

func (s memInvoices) LockByID(ctx context.Context, id uint) (*models.Invoice, error) {
	inv, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Payments = nil
	return inv, nil
}

func (s memInvoices) ExistsForPeriod(_ context.Context, tenancyID uint, period string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, inv := range s.db.invoices {
		if inv.TenancyID == tenancyID && inv.Period == period {
			return true, nil
		}
	}
	return false, nil
}

func (s memInvoices) List(_ context.Context, f repositories.InvoiceFilter) ([]models.Invoice, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Invoice
	for _, inv := range s.db.invoices {
		if f.OrganizationID != 0 && inv.OrganizationID != f.OrganizationID {
			continue
		}
		if f.TenancyID != 0 && inv.TenancyID != f.TenancyID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s memInvoices) ListUnsettledDueBefore(_ context.Context, before time.Time) ([]models.Invoice, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Invoice
	for _, inv := range s.db.invoices {
		unsettled := inv.Status == constants.InvoiceStatusUnpaid || inv.Status == constants.InvoiceStatusPartial
		if unsettled && inv.DueDate.Before(before) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (s memInvoices) CreatePayment(_ context.Context, p *models.Payment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p.ID = s.db.id()
	cp := *p
	s.db.payments = append(s.db.payments, &cp)
	return nil
}

// seed helpers

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (db *memDB) seedUser(name, email string) *models.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &models.User{ID: db.id(), Name: name, Email: email, Status: constants.UserStatusActive}
	db.users[u.ID] = u
	return u
}

func (db *memDB) seedOrg(name string, owner uint) *models.Organization {
	db.mu.Lock()
	defer db.mu.Unlock()
	o := &models.Organization{ID: db.id(), Name: name, OwnerID: owner}
	db.orgs[o.ID] = o
	db.members = append(db.members, &models.Membership{
		ID: db.id(), OrganizationID: o.ID, UserID: owner,
		Role: constants.MemberRoleOwner, Status: constants.UserStatusActive,
	})
	return o
}

func (db *memDB) seedMember(orgID, userID uint, role constants.MemberRole) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.members = append(db.members, &models.Membership{
		ID: db.id(), OrganizationID: orgID, UserID: userID, Role: role, Status: constants.UserStatusActive,
	})
}

func (db *memDB) seedProperty(orgID uint, name string, status constants.PropertyStatus) *models.Property {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := &models.Property{ID: db.id(), OrganizationID: orgID, Name: name, Status: status, NightlyRate: 500000}
	db.properties[p.ID] = p
	return p
}

func (db *memDB) seedUnit(propertyID uint, name string, status constants.UnitStatus) *models.Unit {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &models.Unit{ID: db.id(), PropertyID: propertyID, Name: name, Status: status, MonthlyRent: 4000000}
	db.units[u.ID] = u
	return u
}

func (db *memDB) seedGuest(orgID uint, name string, active bool) *models.Guest {
	db.mu.Lock()
	defer db.mu.Unlock()
	g := &models.Guest{ID: db.id(), OrganizationID: orgID, Name: name, IsActive: active}
	db.guests[g.ID] = g
	return g
}

func (db *memDB) seedBooking(p *models.Property, guestID uint, in, out time.Time, status constants.BookingStatus) *models.Booking {
	db.mu.Lock()
	defer db.mu.Unlock()
	b := &models.Booking{
		ID: db.id(), OrganizationID: p.OrganizationID, PropertyID: p.ID, GuestID: guestID,
		CheckIn: in, CheckOut: out, Status: status,
	}
	db.bookings[b.ID] = b
	return b
}

func (db *memDB) seedTenancy(orgID, unitID, tenantID uint, start, end time.Time, status constants.TenancyStatus) *models.Tenancy {
	db.mu.Lock()
	defer db.mu.Unlock()
	t := &models.Tenancy{
		ID: db.id(), OrganizationID: orgID, UnitID: unitID, TenantID: tenantID,
		StartDate: start, EndDate: end, Status: status, MonthlyRent: 4000000,
	}
	db.tenancies[t.ID] = t
	return t
}

func (db *memDB) property(id uint) models.Property {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.properties[id]
}

func (db *memDB) unit(id uint) models.Unit {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.units[id]
}

// racingBookings mô phỏng một transaction khác commit giữa lúc kiểm tra và lúc ghi:
// lần đọc đầu không thấy gì, Create commit đối thủ rồi vấp ràng buộc exclusion
type racingBookings struct {
	memBookings
	commit func()
	reads  int
}

func (s *racingBookings) FindBlocking(ctx context.Context, propertyID uint, statuses []string) ([]models.Booking, error) {
	s.reads++
	if s.reads == 1 {
		return nil, nil
	}
	return s.memBookings.FindBlocking(ctx, propertyID, statuses)
}

func (s *racingBookings) Create(context.Context, *models.Booking) error {
	if s.commit != nil {
		s.commit()
	}
	return fmt.Errorf("%w: bookings_no_overlap", apperrors.ErrOverlapViolation)
}

type racingTenancies struct {
	memTenancies
	commit func()
	reads  int
}

func (s *racingTenancies) FindBlocking(ctx context.Context, unitID uint, statuses []string) ([]models.Tenancy, error) {
	s.reads++
	if s.reads == 1 {
		return nil, nil
	}
	return s.memTenancies.FindBlocking(ctx, unitID, statuses)
}

func (s *racingTenancies) Create(context.Context, *models.Tenancy) error {
	if s.commit != nil {
		s.commit()
	}
	return fmt.Errorf("%w: tenancies_no_overlap", apperrors.ErrOverlapViolation)
}

// deactivatingGuests khóa khách ngay sau lần đọc đầu tiên, như một SetActive chạy song song
type deactivatingGuests struct {
	memGuests
}

func (s deactivatingGuests) FindByID(ctx context.Context, id uint) (*models.Guest, error) {
	g, err := s.memGuests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.db.mu.Lock()
	s.db.guests[id].IsActive = false
	s.db.mu.Unlock()
	return g, nil
}

// lateInvoices chạy beforeLock ngay trước khi khóa hóa đơn, như một thanh toán khác vừa commit
type lateInvoices struct {
	memInvoices
	beforeLock func(id uint)
}

func (s lateInvoices) LockByID(ctx context.Context, id uint) (*models.Invoice, error) {
	if s.beforeLock != nil {
		s.beforeLock(id)
	}
	return s.memInvoices.LockByID(ctx, id)
}
