package service

import (
	"context"
	"errors"
	"time"

	"github.com/employee-tracker-api/internal/domain"
	"github.com/sethvargo/go-retry"
)

const (
	deleteAttempts = 3
	deleteBackoff  = 10 * time.Millisecond
)

// retryOnConflict повторяет защищённое удаление, если внешний ключ сработал уже после проверки.
// Повторная попытка увидит появившуюся дочернюю запись и вернёт отказ.
func retryOnConflict(ctx context.Context, op func() error) error {
	backoff := retry.WithMaxRetries(deleteAttempts-1, retry.NewConstant(deleteBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op()
		if errors.Is(err, domain.ErrDeleteConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
