package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/service"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// RequestsHandler exposes request creation, lookup and lifecycle endpoints.
type RequestsHandler struct {
	requests  RequestService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewRequestsHandler constructs handler. publisher may be nil to disable notifications.
func NewRequestsHandler(requests RequestService, publisher EventPublisher, logger *zap.Logger) *RequestsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestsHandler{requests: requests, publisher: publisher, logger: logger}
}

type transitionFunc func(*RequestsHandler, *fiber.Ctx, int64, *int64) (*service.TransitionResult, error)

// Create handles POST /requests/.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := req.ToInput()
	if err != nil {
		return apperrors.NewValidationError("invalid request payload", map[string]any{"date": "datetime"})
	}
	actorID, err := auth.ActorID(c)
	if err != nil {
		return err
	}

	result, err := h.requests.Create(c.UserContext(), actorID, input)
	if err != nil {
		return err
	}
	h.publish(result)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(*result.Request)})
}

// ListForStaff handles GET /requests/:staff_id[?status=].
func (h *RequestsHandler) ListForStaff(c *fiber.Ctx) error {
	staffID, err := paramID(c, "staff_id")
	if err != nil {
		return err
	}
	var status *domain.RequestStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseRequestStatus(raw)
		if err != nil {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		status = &parsed
	}

	requests, err := h.requests.ListRequestsForStaff(c.UserContext(), staffID, status)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return apperrors.NewNotFoundMessage("No requests found.", map[string]any{"staff_id": staffID})
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponses(requests)})
}

// Get handles GET /request/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	request, err := h.requests.GetRequest(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(*request)})
}

// History handles GET /request/:id/history.
func (h *RequestsHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.requests.ListHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestHistoryResponses(entries)})
}

// Withdraw handles DELETE /withdraw_request/:id.
func (h *RequestsHandler) Withdraw(c *fiber.Ctx) error {
	return h.transition(c, func(h *RequestsHandler, c *fiber.Ctx, id int64, actor *int64) (*service.TransitionResult, error) {
		return h.requests.Withdraw(c.UserContext(), id, actor)
	})
}

// Cancel handles DELETE /cancel_request/:id.
func (h *RequestsHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, func(h *RequestsHandler, c *fiber.Ctx, id int64, actor *int64) (*service.TransitionResult, error) {
		return h.requests.Cancel(c.UserContext(), id, actor)
	})
}

// Approve handles PUT|POST /request/:id/approve.
func (h *RequestsHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, func(h *RequestsHandler, c *fiber.Ctx, id int64, actor *int64) (*service.TransitionResult, error) {
		return h.requests.Approve(c.UserContext(), id, actor)
	})
}

// Reject handles PUT /request/:id/reject.
func (h *RequestsHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, func(h *RequestsHandler, c *fiber.Ctx, id int64, actor *int64) (*service.TransitionResult, error) {
		return h.requests.Reject(c.UserContext(), id, actor)
	})
}

func (h *RequestsHandler) transition(c *fiber.Ctx, run transitionFunc) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	actorID, err := auth.ActorID(c)
	if err != nil {
		return err
	}
	result, err := run(h, c, id, actorID)
	if err != nil {
		return err
	}
	h.publish(result)
	return c.JSON(fiber.Map{"data": dto.NewTransitionResponse(result)})
}

// publish notifies after a committed transition. Delivery problems never fail the request.
func (h *RequestsHandler) publish(result *service.TransitionResult) {
	if h.publisher == nil || result == nil || result.Request == nil {
		return
	}
	eventType, ok := events.EventTypeForAction(result.Action)
	if !ok {
		return
	}
	event := events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		RequestID:    result.Request.RequestID,
		OwnerStaffID: result.Request.StaffID,
		ActorStaffID: result.ActorID,
		OldStatus:    result.From,
		NewStatus:    result.To,
		Timestamp:    time.Now().UTC(),
	}
	if !h.publisher.Enqueue(event) {
		h.logger.Warn("lifecycle event not queued",
			zap.Int64("request_id", event.RequestID),
			zap.String("event_type", string(event.Type)))
	}
}
