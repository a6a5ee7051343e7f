package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
)

type fakeTicketRepo struct {
	tickets        map[int64]*entities.Ticket
	nextID         int64
	srCounts       map[string]int // keyed by "YYYY-MM" of the from bound
	statusCounts   map[string]int64
	assignCalls    []int64
	closeCalls     []int64
	reassignCalls  []int64
	createdTickets []*entities.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets:      map[int64]*entities.Ticket{},
		nextID:       1,
		srCounts:     map[string]int{},
		statusCounts: map[string]int64{},
	}
}

func (f *fakeTicketRepo) put(t *entities.Ticket) *entities.Ticket {
	if t.ID == 0 {
		t.ID = f.nextID
		f.nextID++
	}
	f.tickets[t.ID] = t
	return t
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *entities.Ticket) (int64, error) {
	f.put(ticket)
	now := time.Now()
	ticket.CreatedAt = &now
	f.createdTickets = append(f.createdTickets, ticket)
	return ticket.ID, nil
}

func (f *fakeTicketRepo) FindByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return t, nil
}

func (f *fakeTicketRepo) Assign(ctx context.Context, ticketID, engineerID int64) error {
	f.assignCalls = append(f.assignCalls, ticketID)
	t := f.tickets[ticketID]
	t.Status = constants.StatusOngoing
	t.EngineerID = &engineerID
	now := time.Now()
	t.AssignedAt = &now
	return nil
}

func (f *fakeTicketRepo) Reassign(ctx context.Context, ticketID, engineerID int64) error {
	f.reassignCalls = append(f.reassignCalls, ticketID)
	f.tickets[ticketID].EngineerID = &engineerID
	return nil
}

func (f *fakeTicketRepo) Close(ctx context.Context, ticketID int64, rectificationDate time.Time, workDone string, durationMinutes int) error {
	f.closeCalls = append(f.closeCalls, ticketID)
	t := f.tickets[ticketID]
	t.Status = constants.StatusClosed
	now := time.Now()
	t.ClosedAt = &now
	t.RectificationDate = &rectificationDate
	t.WorkDoneComment = &workDone
	t.Duration = &durationMinutes
	return nil
}

func (f *fakeTicketRepo) ListByStatus(ctx context.Context, status string) ([]entities.Ticket, error) {
	var out []entities.Ticket
	for _, t := range f.tickets {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByCustomer(ctx context.Context, customerID int64) ([]entities.Ticket, error) {
	var out []entities.Ticket
	for _, t := range f.tickets {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByCompany(ctx context.Context, companyID int64) ([]entities.Ticket, error) {
	var out []entities.Ticket
	for _, t := range f.tickets {
		if t.CompanyID != nil && *t.CompanyID == companyID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByEngineer(ctx context.Context, engineerID int64) ([]entities.Ticket, error) {
	var out []entities.Ticket
	for _, t := range f.tickets {
		if t.EngineerID != nil && *t.EngineerID == engineerID && t.Status == constants.StatusOngoing {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListClosed(ctx context.Context) ([]entities.Ticket, error) {
	return f.ListByStatus(ctx, constants.StatusClosed)
}

func (f *fakeTicketRepo) CountByStatusForEngineer(ctx context.Context, engineerID int64) (map[string]int64, error) {
	return f.statusCounts, nil
}

func (f *fakeTicketRepo) CountByStatusForCompany(ctx context.Context, companyID int64) (map[string]int64, error) {
	return f.statusCounts, nil
}

func (f *fakeTicketRepo) CountServiceRequests(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	return f.srCounts[from.Format("2006-01")], nil
}

type fakeBundleRepo struct {
	sums      map[string]int // keyed by month + "/" + source
	carry     map[string]bool
	overrides map[string]bool
	inserted  []*entities.Bundle
}

func newFakeBundleRepo() *fakeBundleRepo {
	return &fakeBundleRepo{
		sums:      map[string]int{},
		carry:     map[string]bool{},
		overrides: map[string]bool{},
	}
}

func (f *fakeBundleRepo) Insert(ctx context.Context, bundle *entities.Bundle) (int64, error) {
	f.inserted = append(f.inserted, bundle)
	f.sums[bundle.Month+"/"+bundle.Source] += bundle.AdditionalTickets
	if bundle.Source == constants.BundleSourceCarry {
		f.carry[bundle.Month] = true
	}
	return int64(len(f.inserted)), nil
}

func (f *fakeBundleRepo) SumBySource(ctx context.Context, companyID int64, month, source string) (int, error) {
	return f.sums[month+"/"+source], nil
}

func (f *fakeBundleRepo) HasCarry(ctx context.Context, companyID int64, month string) (bool, error) {
	return f.carry[month], nil
}

func (f *fakeBundleRepo) ListByCompany(ctx context.Context, companyID int64) ([]entities.Bundle, error) {
	var out []entities.Bundle
	for _, b := range f.inserted {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBundleRepo) HasOverride(ctx context.Context, companyID int64, month string) (bool, error) {
	return f.overrides[month], nil
}

func (f *fakeBundleRepo) InsertOverride(ctx context.Context, companyID int64, month string) error {
	f.overrides[month] = true
	return nil
}

type fakeUserRepo struct {
	users map[int64]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[int64]*entities.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindByEmailAndRole(ctx context.Context, email string, role constants.Role) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Role == role {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entities.User) (int64, error) {
	id := int64(len(f.users) + 1)
	user.ID = id
	f.users[id] = user
	return id, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id int64, payload dto.UpdateProfileDTO) error {
	return nil
}

func (f *fakeUserRepo) UpdateProfileImage(ctx context.Context, id int64, path string) error {
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]entities.User, error) {
	var out []entities.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role constants.Role) ([]entities.User, error) {
	var out []entities.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListByCompany(ctx context.Context, companyID int64) ([]entities.User, error) {
	var out []entities.User
	for _, u := range f.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListCustomersByAccountManager(ctx context.Context, managerID int64) ([]entities.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeCompanyRepo struct {
	companies    map[int64]*entities.Company
	supportTypes map[string]*entities.SupportType
}

func newFakeCompanyRepo(companies ...*entities.Company) *fakeCompanyRepo {
	f := &fakeCompanyRepo{
		companies:    map[int64]*entities.Company{},
		supportTypes: map[string]*entities.SupportType{},
	}
	for _, c := range companies {
		f.companies[c.ID] = c
	}
	return f
}

func (f *fakeCompanyRepo) Create(ctx context.Context, company *entities.Company) (int64, error) {
	id := int64(len(f.companies) + 1)
	company.ID = id
	f.companies[id] = company
	return id, nil
}

func (f *fakeCompanyRepo) FindByID(ctx context.Context, id int64) (*entities.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeCompanyRepo) FindByName(ctx context.Context, name string) (*entities.Company, error) {
	for _, c := range f.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeCompanyRepo) List(ctx context.Context) ([]entities.Company, error) {
	var out []entities.Company
	for _, c := range f.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCompanyRepo) ListByAccountManager(ctx context.Context, managerID int64) ([]entities.Company, error) {
	var out []entities.Company
	for _, c := range f.companies {
		if c.AccountManagerID != nil && *c.AccountManagerID == managerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCompanyRepo) FindSupportTypeByName(ctx context.Context, name string) (*entities.SupportType, error) {
	st, ok := f.supportTypes[name]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return st, nil
}

func (f *fakeCompanyRepo) ListSupportTypes(ctx context.Context) ([]entities.SupportType, error) {
	var out []entities.SupportType
	for _, st := range f.supportTypes {
		out = append(out, *st)
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments     []*entities.Comment
	participants []int64
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *entities.Comment) (int64, error) {
	comment.ID = int64(len(f.comments) + 1)
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, comment)
	return comment.ID, nil
}

func (f *fakeCommentRepo) FindByID(ctx context.Context, id int64) (*entities.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID int64) ([]entities.Comment, error) {
	var out []entities.Comment
	for _, c := range f.comments {
		if c.TicketID == ticketID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) ParticipantIDs(ctx context.Context, ticketID int64) ([]int64, error) {
	return f.participants, nil
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

type fakeCacheRepo struct {
	entries map[string]*cacheEntry
	now     time.Time
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string]*cacheEntry{}, now: time.Now()}
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	e := &cacheEntry{value: toString(value)}
	if expiration > 0 {
		e.expiresAt = f.now.Add(expiration)
	}
	f.entries[key] = e
	return nil
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	e, ok := f.entries[key]
	if !ok {
		return "", redis.Nil
	}
	return e.value, nil
}

func (f *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeCacheRepo) Incr(ctx context.Context, key string) (int64, error) {
	e, ok := f.entries[key]
	if !ok {
		f.entries[key] = &cacheEntry{value: "1"}
		return 1, nil
	}
	n, _ := strconv.ParseInt(e.value, 10, 64)
	n++
	e.value = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeCacheRepo) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	e, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	e.expiresAt = f.now.Add(expiration)
	return true, nil
}

func (f *fakeCacheRepo) TTL(ctx context.Context, key string) (time.Duration, error) {
	e, ok := f.entries[key]
	if !ok {
		return -2 * time.Second, nil
	}
	if e.expiresAt.IsZero() {
		return -1 * time.Second, nil
	}
	return e.expiresAt.Sub(f.now), nil
}

func toString(v interface{}) string {
	return fmt.Sprint(v)
}

type mailCall struct {
	method string
	to     string
	value  string
}

type fakeMailer struct {
	calls []mailCall
}

func (f *fakeMailer) SendOTP(to, code string) error {
	f.calls = append(f.calls, mailCall{"SendOTP", to, code})
	return nil
}

func (f *fakeMailer) SendTicketCreated(to, ticketID, subject string) error {
	f.calls = append(f.calls, mailCall{"SendTicketCreated", to, ticketID})
	return nil
}

func (f *fakeMailer) SendTicketAssigned(to, ticketID, engineerName string) error {
	f.calls = append(f.calls, mailCall{"SendTicketAssigned", to, ticketID})
	return nil
}

func (f *fakeMailer) SendTicketClosed(to, ticketID string) error {
	f.calls = append(f.calls, mailCall{"SendTicketClosed", to, ticketID})
	return nil
}

func (f *fakeMailer) SendCommentAdded(to, ticketID, authorName string) error {
	f.calls = append(f.calls, mailCall{"SendCommentAdded", to, ticketID})
	return nil
}

func (f *fakeMailer) SendBundlePurchased(to string, size int, billingMonth string) error {
	f.calls = append(f.calls, mailCall{"SendBundlePurchased", to, billingMonth})
	return nil
}

func (f *fakeMailer) SendPasswordReset(to, token string) error {
	f.calls = append(f.calls, mailCall{"SendPasswordReset", to, token})
	return nil
}

func (f *fakeMailer) otpFor(to string) string {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].to == to && (f.calls[i].method == "SendOTP" || f.calls[i].method == "SendPasswordReset") {
			return f.calls[i].value
		}
	}
	return ""
}
