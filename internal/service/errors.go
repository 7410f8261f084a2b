package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/auth"
	"github.com/mmynk/bakery/internal/checkout"
	"github.com/mmynk/bakery/internal/orders"
	"github.com/mmynk/bakery/internal/storage"
)

var (
	errNotOwner      = errors.New("order belongs to another user")
	errNotCancelable = errors.New("only pending orders can be cancelled")
)

// toConnectError maps domain errors to Connect codes. Errors that are
// already *connect.Error pass through.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, checkout.ErrValidation),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrVerificationExpired):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, orders.ErrInvalidTransition), errors.Is(err, errNotCancelable):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, errNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}
