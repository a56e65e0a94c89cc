package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/service"
	"github.com/rs/zerolog"
)

const HeaderCaptchaToken = "X-Captcha-Token"

type CaptchaHandler struct {
	captchaService *service.CaptchaService
}

func NewCaptchaHandler(captchaService *service.CaptchaService) *CaptchaHandler {
	return &CaptchaHandler{
		captchaService: captchaService,
	}
}

func (h *CaptchaHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "captcha").Logger()
	return &l
}

// VerifyCaptchaRequest carries the challenge token and either a text answer
// or a slider position.
type VerifyCaptchaRequest struct {
	Token    string   `form:"token" json:"token" binding:"required"`
	Answer   string   `form:"answer" json:"answer"`
	Position *float64 `form:"position" json:"position"`
}

type VerifyCaptchaResponse struct {
	Success       bool   `json:"success"`
	VerifiedToken string `json:"verifiedToken,omitempty"`
	Message       string `json:"message,omitempty"`
}

var verifyMessages = map[service.VerifyOutcome]string{
	service.VerifySuccess:      "Verification passed",
	service.VerifyInvalidToken: "Captcha is invalid, please refresh",
	service.VerifyExpired:      "Captcha expired, please refresh",
	service.VerifyMismatch:     "Verification failed, please try again",
}

// Issue godoc
// @Summary Issue a captcha challenge
// @Description Returns the challenge image and its single-use token (also in the X-Captcha-Token header)
// @Tags captcha
// @Produce json
// @Param kind query string false "text or position"
// @Success 200 {object} service.IssuedChallenge
// @Failure 400 {object} StandardResponse
// @Failure 500 {object} StandardResponse
// @Router /api/captcha [get]
func (h *CaptchaHandler) Issue(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		challenge *service.IssuedChallenge
		err       error
	)
	switch kind := domain.CaptchaKind(c.Query("kind")); {
	case kind == "":
		challenge, err = h.captchaService.Issue(ctx)
	case kind.IsChallenge():
		challenge, err = h.captchaService.IssueKind(ctx, kind)
	default:
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, nil, domain.WithMsg("Unknown captcha kind")))
		return
	}
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Failed to create captcha")))
		return
	}

	c.Header(HeaderCaptchaToken, challenge.Token)
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, challenge)
}

// Verify godoc
// @Summary Verify a captcha answer
// @Description Consumes the challenge token; on success returns a short-lived verified token for the vote endpoint
// @Tags captcha
// @Accept json
// @Produce json
// @Param request body VerifyCaptchaRequest true "Answer"
// @Success 200 {object} VerifyCaptchaResponse
// @Failure 400 {object} VerifyCaptchaResponse
// @Failure 500 {object} VerifyCaptchaResponse
// @Router /api/captcha/verify [post]
func (h *CaptchaHandler) Verify(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "Verify").Logger()

	var req VerifyCaptchaRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, VerifyCaptchaResponse{Message: "Missing captcha token"})
		return
	}

	answer := req.Answer
	if req.Position != nil {
		answer = strconv.FormatFloat(*req.Position, 'f', -1, 64)
	}

	result, err := h.captchaService.Verify(c.Request.Context(), req.Token, answer)
	if err != nil {
		logger.Error().Err(err).Msg("captcha verification failed")
		c.JSON(http.StatusInternalServerError, VerifyCaptchaResponse{Message: genericFailureMessage})
		return
	}

	if result.Outcome != service.VerifySuccess {
		logger.Debug().Str("outcome", string(result.Outcome)).Msg("captcha rejected")
		c.JSON(http.StatusBadRequest, VerifyCaptchaResponse{Message: verifyMessages[result.Outcome]})
		return
	}

	c.JSON(http.StatusOK, VerifyCaptchaResponse{
		Success:       true,
		VerifiedToken: result.VerifiedToken,
		Message:       verifyMessages[result.Outcome],
	})
}
