package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/service"
	"github.com/rs/zerolog"
)

type VoteHandler struct {
	pollService *service.PollService
	voteService *service.VoteService
	eligibility *service.EligibilityService
}

func NewVoteHandler(pollService *service.PollService, voteService *service.VoteService, eligibility *service.EligibilityService) *VoteHandler {
	return &VoteHandler{
		pollService: pollService,
		voteService: voteService,
		eligibility: eligibility,
	}
}

func (h *VoteHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "vote").Logger()
	return &l
}

// CastVoteRequest carries the chosen option and the verified captcha token.
type CastVoteRequest struct {
	Option       uint   `form:"option" json:"option" binding:"required"`
	CaptchaToken string `form:"captcha_token" json:"captcha_token"`
	Fingerprint  string `form:"fingerprint" json:"fingerprint" binding:"max=128"`
}

type VoteFormResponse struct {
	Poll *domain.Poll `json:"poll"`
}

type CastVoteResponse struct {
	PollID     uint   `json:"poll_id"`
	OptionID   uint   `json:"option_id"`
	ResultsURL string `json:"results_url"`
}

// VoteForm godoc
// @Summary Voting form
// @Description Poll and options; redirects to the results when the caller already voted
// @Tags vote
// @Produce json
// @Param pollId path int true "Poll ID"
// @Success 200 {object} StandardResponse{data=VoteFormResponse}
// @Success 303
// @Failure 404 {object} StandardResponse
// @Router /vote/{pollId} [get]
func (h *VoteHandler) VoteForm(c *gin.Context) {
	ctx := c.Request.Context()

	pollID, err := pollIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	poll, err := h.pollService.GetPoll(ctx, pollID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eligible, err := h.eligibility.IsEligible(ctx, pollID, actorFromRequest(c, ""))
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeInternalProcess, err))
		return
	}
	if !eligible {
		c.Redirect(http.StatusSeeOther, service.ResultsURL(pollID))
		return
	}

	respondWithSuccess(c, VoteFormResponse{Poll: poll})
}

// CastVote godoc
// @Summary Cast a vote
// @Description Record one vote for an option; requires a verified captcha token
// @Tags vote
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param pollId path int true "Poll ID"
// @Param request body CastVoteRequest true "Vote"
// @Success 201 {object} StandardResponse{data=CastVoteResponse}
// @Failure 400 {object} StandardResponse
// @Failure 404 {object} StandardResponse
// @Failure 409 {object} StandardResponse
// @Failure 500 {object} StandardResponse
// @Router /vote/{pollId} [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "CastVote").Logger()

	pollID, err := pollIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Debug().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Please choose an option")))
		return
	}

	actor := actorFromRequest(c, req.Fingerprint)
	record, err := h.voteService.CastVote(c.Request.Context(), pollID, req.Option, actor, req.CaptchaToken)
	if err != nil {
		logger.Info().Str("outcome", service.OutcomeOf(err)).Uint("poll_id", pollID).Msg("vote rejected")
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, CastVoteResponse{
		PollID:     record.PollID,
		OptionID:   record.OptionID,
		ResultsURL: service.ResultsURL(pollID),
	}, "Vote recorded")
}
