package browse

import (
	"context"
	"time"

	"github.com/soyeahso/azent/internal/snapshot"
)

// Watch refreshes immediately and then every interval until ctx is done,
// passing each outcome to fn. Failed refreshes do not stop the loop.
func (s *Service) Watch(ctx context.Context, interval time.Duration, fn func(snapshot.Snapshot, error)) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := s.Refresh(ctx)
		if ctx.Err() != nil {
			return nil
		}
		fn(snap, err)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
