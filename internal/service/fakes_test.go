package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

var errStoreDown = errors.New("store unavailable")

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[int64]*domain.Employee
	listCalls []repository.EmployeeFilter
	err       error
}

func newFakeEmployeeRepo(employees ...domain.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[int64]*domain.Employee)}
	for i := range employees {
		e := employees[i]
		repo.employees[e.StaffID] = &e
	}
	return repo
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	clone := *employee
	r.employees[employee.StaffID] = &clone
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, staffID int64) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.employees[staffID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, e := range r.employees {
		if strings.EqualFold(e.Email, email) {
			clone := *e
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEmployeeRepo) FindByName(_ context.Context, name string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.sorted() {
		if strings.EqualFold(e.FullName(), name) {
			return &e, nil
		}
	}
	for _, e := range r.sorted() {
		if strings.EqualFold(e.FirstName, name) {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls = append(r.listCalls, filter)
	if r.err != nil {
		return nil, r.err
	}
	var result []domain.Employee
	for _, e := range r.sorted() {
		if filter.Department != nil && (e.Department == nil || *e.Department != *filter.Department) {
			continue
		}
		if filter.Position != nil && e.Position != *filter.Position {
			continue
		}
		if filter.ReportingManager != nil && e.ReportingManager != *filter.ReportingManager {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (r *fakeEmployeeRepo) SetPasswordHash(_ context.Context, staffID int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[staffID]
	if !ok {
		return repository.ErrNotFound
	}
	e.PasswordHash = &hash
	return nil
}

func (r *fakeEmployeeRepo) sorted() []domain.Employee {
	result := make([]domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StaffID < result[j].StaffID })
	return result
}

type fakeTeamRepo struct {
	memberships []domain.TeamMembership
	err         error
}

func (r *fakeTeamRepo) ListByStaff(_ context.Context, staffID int64) ([]domain.TeamMembership, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []domain.TeamMembership
	for _, m := range r.memberships {
		if m.StaffID == staffID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeTeamRepo) ListByTeams(_ context.Context, teamIDs []int64) ([]domain.TeamMembership, error) {
	if r.err != nil {
		return nil, r.err
	}
	wanted := make(map[int64]bool, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = true
	}
	var result []domain.TeamMembership
	for _, m := range r.memberships {
		if wanted[m.TeamID] {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeScheduleRepo struct {
	schedules map[int64]domain.Schedule
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, scheduleID int64) (*domain.Schedule, error) {
	s, ok := r.schedules[scheduleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

type fakeRequestRepo struct {
	mu         sync.Mutex
	nextID     int64
	requests   map[int64]*domain.Request
	listCalls  int
	err        error
	// beforeSwap runs inside UpdateStatus before the compare, to simulate a concurrent writer.
	beforeSwap func(*domain.Request)
	undo       []func()
}

func newFakeRequestRepo(requests ...domain.Request) *fakeRequestRepo {
	repo := &fakeRequestRepo{requests: make(map[int64]*domain.Request)}
	for i := range requests {
		r := requests[i]
		repo.requests[r.RequestID] = &r
		if r.RequestID > repo.nextID {
			repo.nextID = r.RequestID
		}
	}
	return repo
}

func (r *fakeRequestRepo) Create(_ context.Context, request *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	request.RequestID = r.nextID
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	clone := *request
	id := request.RequestID
	r.requests[id] = &clone
	r.undo = append(r.undo, func() {
		delete(r.requests, id)
		r.nextID--
	})
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, requestID int64) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	req, ok := r.requests[requestID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, requestID int64, from, to domain.RequestStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	req, ok := r.requests[requestID]
	if !ok {
		return false, nil
	}
	if r.beforeSwap != nil {
		r.beforeSwap(req)
	}
	if req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	r.undo = append(r.undo, func() { req.Status = from })
	return true, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	owners := make(map[int64]bool, len(filter.StaffIDs))
	for _, id := range filter.StaffIDs {
		owners[id] = true
	}
	var result []domain.Request
	for _, req := range r.requests {
		if len(owners) > 0 && !owners[req.StaffID] {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		result = append(result, *req)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result, nil
}

func (r *fakeRequestRepo) status(requestID int64) domain.RequestStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[requestID].Status
}

// begin starts journaling writes so rollback can undo them. Changes made through beforeSwap
// stand for another transaction and are not journaled.
func (r *fakeRequestRepo) begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.undo = nil
}

func (r *fakeRequestRepo) rollback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.undo) - 1; i >= 0; i-- {
		r.undo[i]()
	}
	r.undo = nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.RequestHistory
	err     error
}

func (r *fakeHistoryRepo) Create(_ context.Context, history *domain.RequestHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	history.ID = int64(len(r.entries) + 1)
	history.CreatedAt = time.Now()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) ListByRequest(_ context.Context, requestID int64) ([]domain.RequestHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.RequestHistory
	for _, e := range r.entries {
		if e.RequestID == requestID {
			result = append(result, e)
		}
	}
	return result, nil
}

// fakeTransactor restores both fakes when the unit of work fails, like a rolled back pgx.Tx.
type fakeTransactor struct {
	requests  *fakeRequestRepo
	history   *fakeHistoryRepo
	commits   int
	rollbacks int
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.requests.begin()
	t.history.mu.Lock()
	written := len(t.history.entries)
	t.history.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.requests.rollback()
		t.history.mu.Lock()
		t.history.entries = t.history.entries[:written]
		t.history.mu.Unlock()
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

type fakeNameCache struct {
	names map[int64]string
	gets  int
	err   error
}

func (c *fakeNameCache) Get(_ context.Context, staffID int64) (string, bool, error) {
	c.gets++
	if c.err != nil {
		return "", false, c.err
	}
	name, ok := c.names[staffID]
	return name, ok, nil
}

func (c *fakeNameCache) Set(_ context.Context, staffID int64, name string) error {
	if c.err != nil {
		return c.err
	}
	if c.names == nil {
		c.names = make(map[int64]string)
	}
	c.names[staffID] = name
	return nil
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
