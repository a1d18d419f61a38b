package leave

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type balanceKey struct {
	employeeID  string
	leaveTypeID string
	year        int
}

// fakeStore is an in-memory StoreAPI with the same guarded-mutation semantics
// as the SQL store.
type fakeStore struct {
	mu        sync.Mutex
	types     map[string]LeaveType
	balances  map[balanceKey]*LeaveBalance
	requests  map[string]*LeaveRequest
	decisions []string
	nextID    int

	failCreateRequest bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		types:    make(map[string]LeaveType),
		balances: make(map[balanceKey]*LeaveBalance),
		requests: make(map[string]*LeaveRequest),
	}
}

func (f *fakeStore) addType(t LeaveType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types[t.ID] = t
}

func (f *fakeStore) setBalance(b LeaveBalance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := b
	f.balances[balanceKey{b.EmployeeID, b.LeaveTypeID, b.Year}] = &copied
}

func (f *fakeStore) balance(employeeID, leaveTypeID string, year int) LeaveBalance {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[balanceKey{employeeID, leaveTypeID, year}]; ok {
		return *b
	}
	return LeaveBalance{}
}

func (f *fakeStore) EnsureBalance(_ context.Context, employeeID, leaveTypeID string, year int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := balanceKey{employeeID, leaveTypeID, year}
	if _, ok := f.balances[key]; ok {
		return nil
	}
	leaveType, ok := f.types[leaveTypeID]
	if !ok {
		return ErrTypeNotFound
	}
	f.balances[key] = &LeaveBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
		TotalDays:   leaveType.DaysAllowed,
	}
	return nil
}

func (f *fakeStore) GetBalance(_ context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return LeaveBalance{}, ErrNotFound
	}
	out := *b
	out.Available = out.AvailableDays()
	return out, nil
}

func (f *fakeStore) ReserveDays(_ context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok || b.AvailableDays() < days {
		return false, nil
	}
	b.PendingDays += days
	return true, nil
}

func (f *fakeStore) CommitDays(_ context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok || b.PendingDays < days {
		return false, nil
	}
	b.PendingDays -= days
	b.UsedDays += days
	return true, nil
}

func (f *fakeStore) ReleaseDays(_ context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey{employeeID, leaveTypeID, year}]
	if !ok || b.PendingDays < days {
		return false, nil
	}
	b.PendingDays -= days
	return true, nil
}

func (f *fakeStore) ListTypes(_ context.Context, companyID string) ([]LeaveType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LeaveType
	for _, t := range f.types {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetType(_ context.Context, _, typeID string) (LeaveType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[typeID]
	if !ok {
		return LeaveType{}, ErrTypeNotFound
	}
	return t, nil
}

func (f *fakeStore) CreateType(_ context.Context, payload LeaveType) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	payload.ID = fmt.Sprintf("type-%d", f.nextID)
	f.types[payload.ID] = payload
	return payload.ID, nil
}

func (f *fakeStore) UpdateType(_ context.Context, payload LeaveType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.types[payload.ID]; !ok {
		return ErrTypeNotFound
	}
	f.types[payload.ID] = payload
	return nil
}

func (f *fakeStore) DeleteType(_ context.Context, _, typeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.types[typeID]; !ok {
		return ErrTypeNotFound
	}
	delete(f.types, typeID)
	return nil
}

func (f *fakeStore) TypeReferenced(_ context.Context, typeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.balances {
		if key.leaveTypeID == typeID {
			return true, nil
		}
	}
	for _, req := range f.requests {
		if req.LeaveTypeID == typeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateRequest(_ context.Context, req LeaveRequest) (LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateRequest {
		return LeaveRequest{}, fmt.Errorf("simulated insert failure")
	}
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	copied := req
	f.requests[req.ID] = &copied
	return req, nil
}

func (f *fakeStore) GetRequest(_ context.Context, _, requestID string) (LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[requestID]
	if !ok {
		return LeaveRequest{}, ErrNotFound
	}
	return *req, nil
}

func (f *fakeStore) ListRequests(_ context.Context, companyID string, filter RequestFilter) (RequestListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LeaveRequest
	for _, req := range f.requests {
		if req.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, *req)
	}
	return RequestListResult{Requests: out, Total: len(out)}, nil
}

func (f *fakeStore) MarkApproved(_ context.Context, requestID, actorID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[requestID]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	req.Status = StatusApproved
	req.ApprovedBy = actorID
	req.ApprovedAt = &at
	return true, nil
}

func (f *fakeStore) MarkRejected(_ context.Context, requestID, actorID, reason string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[requestID]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	req.Status = StatusRejected
	req.ApprovedBy = actorID
	req.RejectionReason = reason
	req.RejectedAt = &at
	return true, nil
}

func (f *fakeStore) MarkWithdrawn(_ context.Context, requestID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[requestID]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	req.Status = StatusWithdrawn
	return true, nil
}

func (f *fakeStore) InsertDecision(_ context.Context, requestID, actorID, decision string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, requestID+":"+actorID+":"+decision)
	return nil
}

func (f *fakeStore) ListBalances(_ context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LeaveBalance
	for key, b := range f.balances {
		if key.employeeID == employeeID && key.year == year {
			out = append(out, *b)
		}
	}
	return out, nil
}
