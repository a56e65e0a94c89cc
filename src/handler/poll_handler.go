package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/service"
	"github.com/rs/zerolog"
)

type PollHandler struct {
	pollService    *service.PollService
	requiresSecret bool
}

func NewPollHandler(pollService *service.PollService, requiresSecret bool) *PollHandler {
	return &PollHandler{
		pollService:    pollService,
		requiresSecret: requiresSecret,
	}
}

func (h *PollHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "poll").Logger()
	return &l
}

// CreatePollRequest is accepted as a form (question, options[]) or as JSON.
type CreatePollRequest struct {
	Question string   `form:"question" json:"question" binding:"required,notblank,max=500" example:"Favorite language?"`
	Options  []string `form:"options[]" json:"options" binding:"required,dive,max=200"`
}

type CreateFormResponse struct {
	MinOptions     int  `json:"min_options"`
	RequiresSecret bool `json:"requires_secret"`
}

// ListPolls godoc
// @Summary List polls
// @Description List polls newest first with the caller's voting status
// @Tags poll
// @Produce json
// @Param fingerprint query string false "Browser fingerprint"
// @Success 200 {object} StandardResponse{data=[]service.PollSummary}
// @Failure 500 {object} StandardResponse
// @Router / [get]
func (h *PollHandler) ListPolls(c *gin.Context) {
	actor := actorFromRequest(c, "")

	polls, err := h.pollService.ListPolls(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, polls)
}

// CreateForm godoc
// @Summary Poll creation constraints
// @Tags poll
// @Produce json
// @Success 200 {object} StandardResponse{data=CreateFormResponse}
// @Router /create [get]
func (h *PollHandler) CreateForm(c *gin.Context) {
	respondWithSuccess(c, CreateFormResponse{
		MinOptions:     domain.MinPollOptions,
		RequiresSecret: h.requiresSecret,
	})
}

// CreatePoll godoc
// @Summary Create a poll
// @Description Create a poll with a question and at least two options
// @Tags poll
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body CreatePollRequest true "Poll"
// @Success 201 {object} StandardResponse{data=domain.Poll}
// @Failure 400 {object} StandardResponse
// @Failure 401 {object} StandardResponse
// @Failure 500 {object} StandardResponse
// @Router /create [post]
func (h *PollHandler) CreatePoll(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "CreatePoll").Logger()

	var req CreatePollRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Debug().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("A question and at least two options are required")))
		return
	}

	poll, err := h.pollService.CreatePoll(c.Request.Context(), req.Question, req.Options)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, poll, "Poll created")
}

// Results godoc
// @Summary Poll results
// @Description Per-option vote counts and percentages
// @Tags poll
// @Produce json
// @Param pollId path int true "Poll ID"
// @Success 200 {object} StandardResponse{data=service.PollResults}
// @Failure 404 {object} StandardResponse
// @Router /results/{pollId} [get]
func (h *PollHandler) Results(c *gin.Context) {
	pollID, err := pollIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	results, err := h.pollService.Results(c.Request.Context(), pollID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, results)
}
