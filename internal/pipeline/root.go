package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"emotiplot/internal/logging"
	"emotiplot/internal/model"
)

// RunRoot processes every subfolder of root as its own session, writing plots
// into <subfolder>/plots. A failing folder is logged and the remaining folders
// still run; the joined folder errors are returned.
func (r *Runner) RunRoot(ctx context.Context, root string) ([]Summary, error) {
	folders, err := sessionFolders(root)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, model.Wrap(model.ErrDataFormat, "pipeline", "scan root", "no session folders in "+root, nil)
	}

	r.logger.Info("batch started",
		logging.String("root", root),
		logging.Int("sessions", len(folders)),
	)

	summaries := make([]Summary, 0, len(folders))
	var errs []error
	for _, dir := range folders {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		sess := Session{
			Name:            filepath.Base(dir),
			DataDir:         dir,
			OutputDir:       filepath.Join(dir, plotsDirName),
			CreateOutputDir: true,
		}
		summary, err := r.Run(ctx, sess)
		summaries = append(summaries, summary)
		if err != nil {
			logging.WarnWithContext(r.logger, "session folder failed", "session_failed",
				logging.String(logging.FieldSession, sess.Name),
				logging.String(logging.FieldImpact, "remaining folders still processed"),
				logging.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", sess.Name, err))
		}
	}
	return summaries, errors.Join(errs...)
}

func sessionFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, model.Wrap(model.ErrDataFormat, "pipeline", "scan root", root, err)
	}
	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || name == plotsDirName {
			continue
		}
		folders = append(folders, filepath.Join(root, name))
	}
	sort.Strings(folders)
	return folders, nil
}
