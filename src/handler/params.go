package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quickpoll/backend/src/domain"
	"github.com/quickpoll/backend/src/service"
)

const HeaderFingerprint = "X-Client-Fingerprint"

// pollIDParam parses :pollId. Anything that is not a positive integer is
// reported as a missing poll.
func pollIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("pollId"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.NewError(domain.ErrorCodeResourceNotFound, domain.ErrPollNotFound, domain.WithMsg("Poll not found"))
	}
	return uint(id), nil
}

// actorFromRequest resolves the caller. fingerprint comes from the form when
// present, otherwise from the query string or X-Client-Fingerprint header.
func actorFromRequest(c *gin.Context, fingerprint string) domain.ActorIdentity {
	if strings.TrimSpace(fingerprint) == "" {
		fingerprint = c.Query("fingerprint")
	}
	if strings.TrimSpace(fingerprint) == "" {
		fingerprint = c.GetHeader(HeaderFingerprint)
	}
	return service.ResolveActor(c.Request.Header, c.Request.RemoteAddr, fingerprint)
}
