package httpx

import (
	"errors"
	"net/http"

	"github.com/insuite-dev/insuite/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrUnbalancedVoucher):
		Problem(w, http.StatusUnprocessableEntity, "Unbalanced Voucher", err.Error())
	case errors.Is(err, shared.ErrLockedVoucher):
		Problem(w, http.StatusConflict, "Voucher Locked", err.Error())
	case errors.Is(err, shared.ErrInvalidFormat):
		Problem(w, http.StatusBadRequest, "Invalid Backup Format", err.Error())
	case errors.Is(err, shared.ErrDecryption):
		Problem(w, http.StatusUnprocessableEntity, "Decryption Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
