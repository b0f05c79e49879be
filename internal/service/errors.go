package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dutchpay/internal/auth"
	"github.com/mmynk/dutchpay/internal/models"
)

var errInternal = errors.New("internal error")

// codes maps domain errors to Connect codes, checked in order.
var codes = []struct {
	err  error
	code connect.Code
}{
	{models.ErrInvalidAmount, connect.CodeInvalidArgument},
	{models.ErrInvalidSplit, connect.CodeInvalidArgument},
	{models.ErrOverAllocated, connect.CodeInvalidArgument},
	{models.ErrInvalidArgument, connect.CodeInvalidArgument},
	{auth.ErrWeakPassword, connect.CodeInvalidArgument},
	{auth.ErrInvalidProfile, connect.CodeInvalidArgument},
	{models.ErrNotFound, connect.CodeNotFound},
	{models.ErrInconsistentSplit, connect.CodeFailedPrecondition},
	{models.ErrAlreadyCompleted, connect.CodeAlreadyExists},
	{models.ErrConflict, connect.CodeAlreadyExists},
	{auth.ErrEmailExists, connect.CodeAlreadyExists},
	{models.ErrUnauthorized, connect.CodePermissionDenied},
	{auth.ErrInvalidCredentials, connect.CodeUnauthenticated},
	{auth.ErrMissingToken, connect.CodeUnauthenticated},
}

// toConnectError converts err to a *connect.Error. Unrecognized errors become
// Internal with a generic message; the cause is logged, not returned.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return connect.NewError(c.code, err)
		}
	}
	slog.Error("Internal error", "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}
