package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manqala/community-events-api/internal/api/handler/v1/request"
	"github.com/manqala/community-events-api/internal/api/handler/v1/response"
	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	GetAdministeredEvents(ctx context.Context, identity string) ([]domain.Event, error)
	IsEventAdmin(ctx context.Context, eventID uint, identity string) (bool, error)
}

type RegistryService interface {
	Register(ctx context.Context, eventID uint, identity, participantType string) (domain.Participant, error)
	Lookup(ctx context.Context, eventID uint, identity string) (domain.Participant, error)
	IssueToken(ctx context.Context, tokenContext domain.TokenContext, eventID uint, propertyUnit, owner string) (domain.VirtualToken, error)
}

type DistributionService interface {
	Distribute(ctx context.Context, eventID uint, item, tokenValue, actor string) (domain.ItemGrant, error)
}

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type EventHandler struct {
	svc          EventService
	registry     RegistryService
	distribution DistributionService
	uSvc         UserService
}

func NewEventHandler(svc EventService, registry RegistryService, distribution DistributionService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:          svc,
		registry:     registry,
		distribution: distribution,
		uSvc:         uSvc,
	}
}

// HandleGetEvents godoc
// @Summary      Get events administered by the caller
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvents(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.GetAdministeredEvents(ctx.Request.Context(), user.Email)
	if err != nil {
		err = fmt.Errorf("HandleGetEvents -> h.svc.GetAdministeredEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Description  Returns the event catalog. Only event admins may read it.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.Event
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseEventID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	isAdmin, err := h.svc.IsEventAdmin(ctx.Request.Context(), eventID, user.Email)
	if err != nil {
		err = fmt.Errorf("HandleGetEvent -> h.svc.IsEventAdmin -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if !isAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin of event %v", user.Email, eventID)))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
			return
		}

		err = fmt.Errorf("HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Creates the event with its item rules and admin set. Duplicate rules or admins are rejected.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      201    {object}  domain.Event
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid starts_at: %v", err)))
		return
	}
	endsAt, err := time.Parse(time.RFC3339, input.EndsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ends_at: %v", err)))
		return
	}

	rules := make([]domain.ItemRule, len(input.Items))
	for i, item := range input.Items {
		rules[i] = domain.ItemRule{
			Item:            item.Item,
			ParticipantType: item.ParticipantType,
			UserMax:         item.UserMax,
			EventMax:        item.EventMax,
		}
	}

	// The creator always administers the event.
	admins := input.Admins
	if !contains(admins, user.Email) {
		admins = append(admins, user.Email)
	}

	event := domain.Event{
		Name:      input.Name,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		ItemRules: rules,
		Admins:    admins,
	}

	createdEvent, err := h.svc.CreateEvent(ctx.Request.Context(), event)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateItemRule) || errors.Is(err, domain.ErrDuplicateAdmin) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, createdEvent)
}

// HandleRegisterInterest godoc
// @Summary      Register interest in an event
// @Description  Registers the caller as a participant and issues a registration virtual token. Registering twice is a no-op.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Param        input    body      request.RegisterInterestRequest  true  "Registration details"
// @Success      201  {object}  response.RegisterInterestResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/register [post]
// @Security BearerAuth
func (h *EventHandler) HandleRegisterInterest(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseEventID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.RegisterInterestRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if _, err := h.svc.GetEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
			return
		}

		err = fmt.Errorf("HandleRegisterInterest -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	participant, err := h.registry.Register(ctx.Request.Context(), eventID, user.Email, input.ParticipantType)
	if err != nil {
		err = fmt.Errorf("HandleRegisterInterest -> h.registry.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := h.registry.IssueToken(ctx.Request.Context(), domain.TokenContextRegistration, eventID, input.PropertyUnit, user.Email)
	if err != nil {
		err = fmt.Errorf("HandleRegisterInterest -> h.registry.IssueToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.RegisterInterestResponse{
		Participant: participant,
		Token:       token,
	})
}

// HandleVerifyParticipant godoc
// @Summary      Verify a participant registration
// @Description  Reports whether the identity is registered for the event. Only event admins may query it.
// @Tags         events
// @Produce      json
// @Param        eventID   path      int     true  "Event ID"
// @Param        identity  path      string  true  "Participant identity"
// @Success      200  {object}  response.VerifyParticipantResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/participants/{identity}/verify [get]
// @Security BearerAuth
func (h *EventHandler) HandleVerifyParticipant(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseEventID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	isAdmin, err := h.svc.IsEventAdmin(ctx.Request.Context(), eventID, user.Email)
	if err != nil {
		err = fmt.Errorf("HandleVerifyParticipant -> h.svc.IsEventAdmin -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if !isAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin of event %v", user.Email, eventID)))
		return
	}

	participant, err := h.registry.Lookup(ctx.Request.Context(), eventID, ctx.Param("identity"))
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			ctx.JSON(http.StatusOK, response.VerifyParticipantResponse{Registered: false})
			return
		}

		err = fmt.Errorf("HandleVerifyParticipant -> h.registry.Lookup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.VerifyParticipantResponse{
		Registered:  true,
		Participant: &participant,
	})
}

// HandleDistribute godoc
// @Summary      Distribute an item to a participant
// @Description  Records one grant of the item to the holder of the scanned virtual token, enforcing the per-participant and per-bucket caps.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Param        input    body      request.DistributeRequest  true  "Distribution details"
// @Success      201  {object}  domain.ItemGrant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/distribute [post]
// @Security BearerAuth
func (h *EventHandler) HandleDistribute(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseEventID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.DistributeRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	grant, err := h.distribution.Distribute(ctx.Request.Context(), eventID, input.Item, input.VirtualID, user.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEventAdmin):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrInvalidToken):
			response.RenderErr(ctx, response.ErrNotFound("virtual token", "virtual_id", input.VirtualID))
		case errors.Is(err, service.ErrNotRegistered):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrItemNotAllowed):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
		case errors.Is(err, service.ErrQuotaExceeded):
			response.RenderErr(ctx, response.ErrQuotaExceeded(err))
		default:
			err = fmt.Errorf("HandleDistribute -> h.distribution.Distribute -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, grant)
}

func parseEventID(ctx *gin.Context) (uint, error) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid event ID: %w", err)
	}

	return uint(eventID), nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
