package steps

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// StageOptions tunes the per-unit work of the media stages.
type StageOptions struct {
	// UnitTimeout bounds one unit's external call. Zero means no limit.
	UnitTimeout time.Duration
	// Concurrency is the number of units processed at once. Values below 1
	// mean sequential.
	Concurrency int
}

// unitFunc produces the artifact for one unit and returns its basename.
// An empty basename with a nil error means the unit was skipped.
type unitFunc func(ctx context.Context, u lesson.Unit) (string, error)

// runUnits applies fn to every unit, tolerating per-unit failures. The
// returned artifacts keep the order of units regardless of concurrency.
func runUnits(ctx context.Context, log *logger.Logger, units []lesson.Unit, opts StageOptions, fn unitFunc) []lesson.Artifact {
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	results := make([]string, len(units))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			unitCtx := ctx
			if opts.UnitTimeout > 0 {
				var cancel context.CancelFunc
				unitCtx, cancel = context.WithTimeout(ctx, opts.UnitTimeout)
				defer cancel()
			}
			name, err := fn(unitCtx, u)
			if err != nil {
				log.Warn("Unit failed; continuing", "unit", string(u.Key()), "error", err.Error())
				return nil
			}
			results[i] = name
			return nil
		})
	}
	_ = g.Wait()

	out := make([]lesson.Artifact, 0, len(units))
	for i, name := range results {
		if name == "" {
			continue
		}
		out = append(out, lesson.Artifact{Key: units[i].Key(), Filename: name})
	}
	return out
}

// textUnits lists the units of doc whose section exists and whose text is not blank.
func textUnits(doc *lesson.Document) []lesson.Unit {
	var out []lesson.Unit
	for _, u := range lesson.Units() {
		text, ok := doc.Text(u)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// writeFileAtomic writes data under a temporary name and renames it to path,
// so a failed write never leaves a file under the final name.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
