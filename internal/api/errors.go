package api

import (
	"errors"
	"net/http"

	"microblog/internal/api/respond"
	"microblog/internal/model"
)

// writeDomainError maps the service error taxonomy to the boundary contract:
// validation and duplicate-edge conflicts are 400, ownership mismatches 403,
// absent entities 404, everything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrForbidden):
		respond.WriteForbidden(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
