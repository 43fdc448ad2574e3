package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manqala/community-events-api/internal/api/handler/v1/request"
	"github.com/manqala/community-events-api/internal/api/handler/v1/response"
	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/service"
)

type ScoringService interface {
	ScoreInteraction(ctx context.Context, primaryValue, counterpartValue string) (*domain.ScoreEntry, error)
}

type ContactHandler struct {
	registry RegistryService
	scoring  ScoringService
	uSvc     UserService
}

func NewContactHandler(registry RegistryService, scoring ScoringService, uSvc UserService) *ContactHandler {
	return &ContactHandler{
		registry: registry,
		scoring:  scoring,
		uSvc:     uSvc,
	}
}

// HandleShareContact godoc
// @Summary      Issue a contact-sharing virtual token
// @Description  Mints a share_contact virtual token bound to the caller for the given event and unit.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        input  body      request.ShareContactRequest  true  "Token details"
// @Success      201    {object}  domain.VirtualToken
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /contacts/share [post]
// @Security BearerAuth
func (h *ContactHandler) HandleShareContact(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ShareContactRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	token, err := h.registry.IssueToken(ctx.Request.Context(), domain.TokenContextShareContact, input.EventID, input.PropertyUnit, user.Email)
	if err != nil {
		err = fmt.Errorf("HandleShareContact -> h.registry.IssueToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, token)
}

// HandleScoreInteraction godoc
// @Summary      Score a contact exchange
// @Description  Awards one activity point to the primary token's owner. Best-effort: an exchange across unrelated events, or a repeat of the same exchange, is a no-op.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        input  body      request.ScoreInteractionRequest  true  "Interaction details"
// @Success      200    {object}  response.ScoreInteractionResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /contacts/score [post]
// @Security BearerAuth
func (h *ContactHandler) HandleScoreInteraction(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ScoreInteractionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, err := h.scoring.ScoreInteraction(ctx.Request.Context(), input.VirtualID, input.CounterpartID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.RenderErr(ctx, response.ErrNotFound("virtual token", "virtual_id", input.VirtualID))
			return
		}

		err = fmt.Errorf("HandleScoreInteraction -> h.scoring.ScoreInteraction -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ScoreInteractionResponse{
		Scored: entry != nil,
		Entry:  entry,
	})
}
