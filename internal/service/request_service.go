package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// RequestService aggregates requests and drives their lifecycle.
type RequestService struct {
	requests  repository.RequestRepository
	history   repository.RequestHistoryRepository
	employees repository.EmployeeRepository
	schedules repository.ScheduleRepository
	tx        repository.Transactor
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// RequestDependencies bundles repositories for the request service.
type RequestDependencies struct {
	RequestRepo  repository.RequestRepository
	HistoryRepo  repository.RequestHistoryRepository
	EmployeeRepo repository.EmployeeRepository
	ScheduleRepo repository.ScheduleRepository
	// Transactor scopes a status write and its history entry to one transaction.
	Transactor repository.Transactor
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewRequestService creates the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tx := deps.Transactor
	if tx == nil {
		tx = inlineTransactor{}
	}
	return &RequestService{
		requests:  deps.RequestRepo,
		history:   deps.HistoryRepo,
		employees: deps.EmployeeRepo,
		schedules: deps.ScheduleRepo,
		tx:        tx,
		metrics:   deps.Metrics,
		logger:    logger,
	}
}

// RequestCreateInput describes a new request. Status, when given, must be Pending.
type RequestCreateInput struct {
	StaffID     int64
	ScheduleID  *int64
	Reason      string
	Status      *domain.RequestStatus
	Date        time.Time
	TimeSlot    string
	RequestType string
}

// TransitionResult describes a completed lifecycle step. From is nil for create.
type TransitionResult struct {
	Request *domain.Request
	Owner   *domain.Employee
	ActorID *int64
	Action  domain.RequestAction
	From    *domain.RequestStatus
	To      domain.RequestStatus
}

type transitionRule struct {
	from          domain.RequestStatus
	to            domain.RequestStatus
	actorRequired bool
	allowed       func(actor, owner *domain.Employee) bool
}

var lifecycle = map[domain.RequestAction]transitionRule{
	domain.RequestActionWithdraw: {
		from:    domain.RequestStatusPending,
		to:      domain.RequestStatusWithdrawn,
		allowed: isOwner,
	},
	domain.RequestActionCancel: {
		from: domain.RequestStatusApproved,
		to:   domain.RequestStatusCancelled,
		allowed: func(actor, owner *domain.Employee) bool {
			return isOwner(actor, owner) || isApprover(actor, owner)
		},
	},
	domain.RequestActionApprove: {
		from:          domain.RequestStatusPending,
		to:            domain.RequestStatusApproved,
		actorRequired: true,
		allowed:       isApprover,
	},
	domain.RequestActionReject: {
		from:          domain.RequestStatusPending,
		to:            domain.RequestStatusRejected,
		actorRequired: true,
		allowed:       isApprover,
	},
}

func isOwner(actor, owner *domain.Employee) bool {
	return actor.StaffID == owner.StaffID
}

func isApprover(actor, owner *domain.Employee) bool {
	return actor.Role == domain.RoleHR || actor.ManagesDirectly(*owner)
}

// Create validates and stores a new Pending request.
func (s *RequestService) Create(ctx context.Context, actorID *int64, input RequestCreateInput) (*TransitionResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	owner, err := s.employees.GetByID(ctx, input.StaffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("staff_id does not reference an existing employee",
				map[string]any{"staff_id": input.StaffID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.ScheduleID != nil {
		if _, err := s.schedules.GetByID(ctx, *input.ScheduleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewValidationError("schedule_id does not reference an existing schedule",
					map[string]any{"schedule_id": *input.ScheduleID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	request := &domain.Request{
		StaffID:     input.StaffID,
		ScheduleID:  input.ScheduleID,
		Reason:      strings.TrimSpace(input.Reason),
		Status:      domain.RequestStatusPending,
		Date:        input.Date,
		TimeSlot:    strings.TrimSpace(input.TimeSlot),
		RequestType: strings.TrimSpace(input.RequestType),
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requests.Create(ctx, request); err != nil {
			return apperrors.MapError(err)
		}
		return s.recordHistory(ctx, request.RequestID, actorID, domain.RequestActionCreate, nil, request.Status)
	})
	if err != nil {
		s.metrics.RecordTransition(string(domain.RequestActionCreate), apperrors.ToDomainError(err).Code)
		return nil, err
	}

	s.metrics.RecordTransition(string(domain.RequestActionCreate), "ok")
	return &TransitionResult{
		Request: request,
		Owner:   owner,
		ActorID: actorID,
		Action:  domain.RequestActionCreate,
		To:      request.Status,
	}, nil
}

// Withdraw moves a Pending request to Withdrawn. A known actor must own the request.
func (s *RequestService) Withdraw(ctx context.Context, requestID int64, actorID *int64) (*TransitionResult, error) {
	return s.transition(ctx, requestID, actorID, domain.RequestActionWithdraw)
}

// Cancel moves an Approved request to Cancelled.
func (s *RequestService) Cancel(ctx context.Context, requestID int64, actorID *int64) (*TransitionResult, error) {
	return s.transition(ctx, requestID, actorID, domain.RequestActionCancel)
}

// Approve moves a Pending request to Approved. The actor must be the owner's manager or HR.
func (s *RequestService) Approve(ctx context.Context, requestID int64, actorID *int64) (*TransitionResult, error) {
	return s.transition(ctx, requestID, actorID, domain.RequestActionApprove)
}

// Reject moves a Pending request to Rejected. The actor must be the owner's manager or HR.
func (s *RequestService) Reject(ctx context.Context, requestID int64, actorID *int64) (*TransitionResult, error) {
	return s.transition(ctx, requestID, actorID, domain.RequestActionReject)
}

func (s *RequestService) transition(ctx context.Context, requestID int64, actorID *int64, action domain.RequestAction) (*TransitionResult, error) {
	result, err := s.applyTransition(ctx, requestID, actorID, action)
	if err != nil {
		s.metrics.RecordTransition(string(action), apperrors.ToDomainError(err).Code)
		return nil, err
	}
	s.metrics.RecordTransition(string(action), "ok")
	return result, nil
}

func (s *RequestService) applyTransition(ctx context.Context, requestID int64, actorID *int64, action domain.RequestAction) (*TransitionResult, error) {
	rule, ok := lifecycle[action]
	if !ok {
		return nil, apperrors.NewBadRequest("unsupported action " + string(action))
	}

	request, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	owner, err := s.loadEmployee(ctx, request.StaffID)
	if err != nil {
		return nil, err
	}
	if request.Status != rule.from {
		return nil, apperrors.NewInvalidTransition(string(action), request.Status.String())
	}
	if err := s.authorize(ctx, rule, actorID, owner); err != nil {
		return nil, err
	}

	from := rule.from
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		swapped, err := s.requests.UpdateStatus(ctx, requestID, rule.from, rule.to)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !swapped {
			return apperrors.NewConflict("request was modified concurrently",
				map[string]any{"request_id": requestID, "action": string(action)})
		}
		return s.recordHistory(ctx, requestID, actorID, action, &from, rule.to)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.logger.Warn("reload after transition failed", zap.Int64("request_id", requestID), zap.Error(err))
		request.Status = rule.to
		updated = request
	}

	return &TransitionResult{
		Request: updated,
		Owner:   owner,
		ActorID: actorID,
		Action:  action,
		From:    &from,
		To:      rule.to,
	}, nil
}

func (s *RequestService) authorize(ctx context.Context, rule transitionRule, actorID *int64, owner *domain.Employee) error {
	if actorID == nil {
		if rule.actorRequired {
			return apperrors.NewUnauthorized("actor identity required")
		}
		return nil
	}
	actor, err := s.employees.GetByID(ctx, *actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewForbidden("unknown actor")
		}
		return apperrors.MapError(err)
	}
	if !rule.allowed(actor, owner) {
		return apperrors.NewForbidden("actor is not allowed to perform this action")
	}
	return nil
}

// AggregatePendingRequests returns the Pending requests owned by staffIDs, ascending by
// request id. An empty staff set returns an empty result without touching the store.
func (s *RequestService) AggregatePendingRequests(ctx context.Context, staffIDs []int64) ([]domain.Request, error) {
	ids := sortedUnique(staffIDs)
	if len(ids) == 0 {
		return []domain.Request{}, nil
	}
	pending := domain.RequestStatusPending
	return s.list(ctx, repository.RequestFilter{StaffIDs: ids, Status: &pending})
}

// ListRequestsForStaff returns the requests of one staff member, optionally narrowed to status.
func (s *RequestService) ListRequestsForStaff(ctx context.Context, staffID int64, status *domain.RequestStatus) ([]domain.Request, error) {
	if staffID <= 0 {
		return nil, apperrors.NewBadRequest("Staff ID is required")
	}
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": int(*status)})
	}
	return s.list(ctx, repository.RequestFilter{StaffIDs: []int64{staffID}, Status: status})
}

// GetRequest loads a single request.
func (s *RequestService) GetRequest(ctx context.Context, requestID int64) (*domain.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.MapError(err)
	}
	return request, nil
}

// ListHistory returns the transition audit of one request, oldest first.
func (s *RequestService) ListHistory(ctx context.Context, requestID int64) ([]domain.RequestHistory, error) {
	if _, err := s.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.RequestHistory{}
	}
	return entries, nil
}

func (s *RequestService) list(ctx context.Context, filter repository.RequestFilter) ([]domain.Request, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	return requests, nil
}

func (s *RequestService) loadEmployee(ctx context.Context, staffID int64) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

func (s *RequestService) recordHistory(ctx context.Context, requestID int64, actorID *int64, action domain.RequestAction, from *domain.RequestStatus, to domain.RequestStatus) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.RequestHistory{
		RequestID:    requestID,
		ActorStaffID: actorID,
		Action:       action,
		OldStatus:    from,
		NewStatus:    to,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// inlineTransactor runs the unit of work directly, for wiring without a pool.
type inlineTransactor struct{}

func (inlineTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func validateCreateInput(input RequestCreateInput) error {
	details := map[string]any{}
	if input.StaffID <= 0 {
		details["staff_id"] = "required"
	}
	if strings.TrimSpace(input.Reason) == "" {
		details["reason"] = "required"
	}
	if input.Date.IsZero() {
		details["date"] = "required"
	}
	if strings.TrimSpace(input.TimeSlot) == "" {
		details["time_slot"] = "required"
	}
	if strings.TrimSpace(input.RequestType) == "" {
		details["request_type"] = "required"
	}
	if input.Status != nil && *input.Status != domain.RequestStatusPending {
		details["status"] = "new requests must be pending"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid request payload", details)
	}
	return nil
}
