package handler

import (
	"context"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/quickpoll/backend/src/service"
	"github.com/shopspring/decimal"
)

// Dependencies are the services the HTTP layer talks to.
type Dependencies struct {
	PollService    *service.PollService
	VoteService    *service.VoteService
	CaptchaService *service.CaptchaService
	Eligibility    *service.EligibilityService

	// APISecret guards poll creation when non-empty
	APISecret string

	// HealthChecks are probed by GET /health
	HealthChecks map[string]Pinger
}

func RegisterRoutes(ctx context.Context, router *gin.Engine, deps Dependencies) {

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if value, ok := field.Interface().(decimal.Decimal); ok {
				return value.String()
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}

	SetMiddlewares(ctx, router)

	router.GET("/health", newHealthCheckHandler(deps.HealthChecks))

	pollHandler := NewPollHandler(deps.PollService, deps.APISecret != "")
	voteHandler := NewVoteHandler(deps.PollService, deps.VoteService, deps.Eligibility)
	captchaHandler := NewCaptchaHandler(deps.CaptchaService)

	router.GET("/", pollHandler.ListPolls)
	router.GET("/create", pollHandler.CreateForm)
	router.POST("/create", SharedSecretMiddleware(deps.APISecret), pollHandler.CreatePoll)
	router.GET("/vote/:pollId", voteHandler.VoteForm)
	router.POST("/vote/:pollId", voteHandler.CastVote)
	router.GET("/results/:pollId", pollHandler.Results)

	api := router.Group("/api/captcha")
	{
		api.GET("", captchaHandler.Issue)
		// alias kept for slider clients
		api.GET("/generate", captchaHandler.Issue)
		api.POST("/verify", captchaHandler.Verify)
	}
}
