package services

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// failure keeps err's type and attaches the message shown to the user
func failure(err error, message string) error {
	errType := apperrors.TypeOf(err)
	if errType == "" {
		errType = apperrors.ErrorTypeInternal
	}
	return &apperrors.AppError{Type: errType, Message: message, Err: err}
}

// reportFailure turns a failed mutation into an error toast carrying the
// most specific backend message
func reportFailure(ctx context.Context, notifications *NotificationService, err error, fallback string) error {
	message := hmsapi.DetailedMessageFrom(err, fallback)
	observability.LoggerFromContext(ctx).Warn().Err(err).Msg(fallback)
	notifications.Error(ctx, message)
	return failure(err, message)
}
