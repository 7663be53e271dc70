package orders

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/persistfsm/handler"
	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

var (
	ErrInvalidOrderID = handler.NewHTTPError(http.StatusBadRequest, "invalid_order_id")
	ErrInvalidPayload = handler.NewHTTPError(http.StatusBadRequest, "invalid_payload")
)

// describe maps Handler failures onto HTTP statuses:
// unknown orders are 404, rejected transitions and lost races are 409,
// vetoes are 422 and storage problems are 503.
func describe(err error) (int, *handler.ErrorDetail) {
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, &handler.ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}
	}

	detail := &handler.ErrorDetail{Message: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case persist.IsUnknownEntity(err):
		status, detail.Code = http.StatusNotFound, "order_not_found"
	case persist.IsRejected(err):
		status, detail.Code = http.StatusConflict, "transition_rejected"
		if rej, ok := persist.RejectionOf(err); ok {
			detail.Details = map[string]any{
				"state":  rej.State,
				"event":  rej.Event,
				"reason": rej.Reason.String(),
			}
		}
	case persist.IsConflict(err):
		status, detail.Code = http.StatusConflict, "state_conflict"
	case errors.Is(err, persist.ErrVetoed):
		status, detail.Code = http.StatusUnprocessableEntity, "transition_vetoed"
	case persist.IsPersistenceFailed(err):
		status, detail.Code = http.StatusServiceUnavailable, "persistence_failed"
	case errors.Is(err, persist.ErrLoadFailed):
		status, detail.Code = http.StatusServiceUnavailable, "store_unavailable"
	case errors.Is(err, persist.ErrLockFailed):
		status, detail.Code = http.StatusServiceUnavailable, "lock_unavailable"
	case errors.Is(err, persist.ErrInvalidState):
		detail.Code = "invalid_stored_state"
	case errors.Is(err, statemachine.ErrActionFailed):
		detail.Code = "action_failed"
	default:
		detail.Code = "internal_error"
	}

	return status, detail
}

func errorResponse(err error) handler.Response {
	status, detail := describe(err)
	return handler.JSONError(detail, handler.WithJSONStatus(status))
}
