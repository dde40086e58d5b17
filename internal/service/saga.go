package service

import (
	"context"
	"fmt"
	"log/slog"
)

// createSaga is the two-phase create: step one provisions an external
// resource, step two persists the local row. The external provider and the
// metadata store cannot be updated atomically, so if step two fails the
// saga compensates by deleting the just-created external resource -
// attempted exactly once, best-effort. A failed compensation is logged and
// left as drift; it is never retried.
type createSaga struct {
	// createExternal provisions the external resource and returns its id.
	createExternal func(ctx context.Context) (string, error)

	// persistLocal writes the row of record referencing the external id.
	persistLocal func(ctx context.Context, externalID string) error

	// compensate removes the external resource after persistLocal failed.
	compensate func(ctx context.Context, externalID string) error

	logger *slog.Logger
}

// run executes the saga. The returned error is the step error; a
// compensation failure only shows up in the log.
func (s *createSaga) run(ctx context.Context) error {
	externalID, err := s.createExternal(ctx)
	if err != nil {
		return fmt.Errorf("create external resource: %w", err)
	}

	if err := s.persistLocal(ctx, externalID); err != nil {
		if cerr := s.compensate(ctx, externalID); cerr != nil {
			s.logger.Error("create saga compensation failed, external resource orphaned",
				"external_id", externalID,
				"error", cerr,
			)
		}
		return err
	}

	return nil
}
