package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manqala/community-events-api/internal/api/handler/v1/response"
	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/service"
)

type LeaderboardService interface {
	ParticipantRank(ctx context.Context, eventID uint, identity string) (domain.LeaderboardRank, error)
}

type LeaderboardHandler struct {
	svc      LeaderboardService
	registry RegistryService
	uSvc     UserService
}

func NewLeaderboardHandler(svc LeaderboardService, registry RegistryService, uSvc UserService) *LeaderboardHandler {
	return &LeaderboardHandler{
		svc:      svc,
		registry: registry,
		uSvc:     uSvc,
	}
}

// HandleLeaderboard godoc
// @Summary      Get the caller's leaderboard standing
// @Description  Returns the caller's total, dense rank and percentile for the event, plus the event's highest total and scored-participant count. A caller without score entries gets the aggregates with a zero rank.
// @Tags         leaderboard
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.LeaderboardRank
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/leaderboard [get]
// @Security BearerAuth
func (h *LeaderboardHandler) HandleLeaderboard(ctx *gin.Context) {
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

	if _, err := h.registry.Lookup(ctx.Request.Context(), eventID, user.Email); err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not registered for event %v", user.Email, eventID)))
			return
		}

		err = fmt.Errorf("HandleLeaderboard -> h.registry.Lookup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	rank, err := h.svc.ParticipantRank(ctx.Request.Context(), eventID, user.Email)
	if err != nil {
		err = fmt.Errorf("HandleLeaderboard -> h.svc.ParticipantRank -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rank)
}
