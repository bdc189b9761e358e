package laundryserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
	notifports "github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"
	ordersapp "github.com/Apurer/laundry-backoffice/internal/domains/orders/application"
	ordersports "github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"
	apierrors "github.com/Apurer/laundry-backoffice/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondServiceError translates guard, workflow, and inbox errors into
// RFC 7807 responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, authports.ErrNoSession),
		errors.Is(err, authports.ErrSessionExpired),
		errors.Is(err, authports.ErrSessionIntegrity),
		errors.Is(err, authports.ErrInvalidCredentials):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
	case errors.Is(err, authports.ErrCsrfMismatch),
		errors.Is(err, authports.ErrForbidden):
		respondProblem(c, apierrors.ErrForbidden.WithDetail(err.Error()))
	case errors.Is(err, authports.ErrRateLimited):
		respondProblem(c, apierrors.ErrRateLimited.WithDetail("too many requests, please try again later"))
	case errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, notifports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, ordersapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
