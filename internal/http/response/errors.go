package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/edugen-backend/internal/modules/lesson/pipeline"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/prompts"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/steps"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
	"github.com/yungbote/edugen-backend/internal/platform/apierr"
)

// FromError maps domain and pipeline errors onto an HTTP status and code.
func FromError(err error) *apierr.Error {
	var e *apierr.Error
	if errors.As(err, &e) {
		return e
	}
	var vErr *pipeline.ValidationError
	var tErr *prompts.TemplateError
	var pErr *steps.DraftParseError
	var sErr *steps.DraftShapeError
	switch {
	case err == nil:
		return &apierr.Error{Status: http.StatusInternalServerError, Code: "internal"}
	case errors.As(err, &vErr):
		return &apierr.Error{Status: http.StatusUnprocessableEntity, Code: "validation_failed", Err: err, Details: vErr.Errors}
	case errors.As(err, &tErr):
		return &apierr.Error{Status: http.StatusInternalServerError, Code: "template_invalid", Err: err}
	case errors.As(err, &pErr), errors.As(err, &sErr):
		return &apierr.Error{Status: http.StatusBadGateway, Code: "draft_invalid", Err: err}
	case errors.Is(err, apperr.ErrInvalidArgument):
		return &apierr.Error{Status: http.StatusBadRequest, Code: "invalid_request", Err: err}
	case errors.Is(err, apperr.ErrUnauthorized):
		return &apierr.Error{Status: http.StatusUnauthorized, Code: "unauthorized", Err: err}
	case errors.Is(err, apperr.ErrForbidden):
		return &apierr.Error{Status: http.StatusForbidden, Code: "forbidden", Err: err}
	case errors.Is(err, apperr.ErrNotFound):
		return &apierr.Error{Status: http.StatusNotFound, Code: "not_found", Err: err}
	case errors.Is(err, apperr.ErrConflict):
		return &apierr.Error{Status: http.StatusConflict, Code: "conflict", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &apierr.Error{Status: http.StatusGatewayTimeout, Code: "timeout", Err: err}
	default:
		return &apierr.Error{Status: http.StatusInternalServerError, Code: "internal", Err: err}
	}
}
