package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"emotiplot/internal/annotate"
	"emotiplot/internal/config"
	"emotiplot/internal/emotibit"
	"emotiplot/internal/logging"
	"emotiplot/internal/model"
	"emotiplot/internal/render"
	"emotiplot/internal/schedule"
)

// Status classifies the outcome of one channel.
type Status string

const (
	StatusRendered Status = "rendered"
	StatusSkipped  Status = "skipped"
	StatusMissing  Status = "missing"
)

// ChannelResult reports one channel of a run.
type ChannelResult struct {
	Signal   string
	Status   Status
	Reason   string
	Path     string
	Files    int
	Samples  int
	Spans    int
	Levels   int
	Bytes    int
	Duration time.Duration
}

// Summary reports a completed or aborted run. Results holds every channel
// that finished before the run stopped.
type Summary struct {
	RunID        string
	Session      string
	DataDir      string
	SchedulePath string
	OutputDir    string
	Entries      int
	Results      []ChannelResult
	Elapsed      time.Duration
}

// Count returns the number of channels with status.
func (s Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Runner executes sessions against one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Runner.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes one session. Schedule and signal load failures abort the run,
// as does any output error; channels rendered before the failure keep their
// PNGs and appear in the returned Summary.
func (r *Runner) Run(ctx context.Context, sess Session) (Summary, error) {
	started := time.Now()
	summary := Summary{
		RunID:   uuid.NewString(),
		Session: sess.displayName(),
		DataDir: sess.DataDir,
	}
	if strings.TrimSpace(sess.DataDir) == "" {
		return summary, errors.New("no data folder configured (set paths.data_dir or pass --data)")
	}
	summary.OutputDir = sess.outputDir()

	ctx = logging.WithRunID(ctx, summary.RunID)
	ctx = logging.WithSession(ctx, summary.Session)
	logger := logging.WithContext(ctx, r.logger)

	loc := r.cfg.Location()
	date, err := r.sessionDate(sess.DataDir, loc)
	if err != nil {
		return summary, err
	}
	afternoon := afternoonSession(r.cfg.Session.Period, summary.Session)

	schedulePath := sess.SchedulePath
	if strings.TrimSpace(schedulePath) == "" {
		schedulePath, err = FindSchedule(sess.DataDir)
		if err != nil {
			return summary, err
		}
	}
	summary.SchedulePath = schedulePath

	logger.Info("session started",
		logging.String("data_dir", sess.DataDir),
		logging.String("schedule", schedulePath),
		logging.String("output_dir", summary.OutputDir),
		logging.String("date", formatDate(date)),
		logging.Bool("afternoon", afternoon),
	)

	sched, err := schedule.Load(ctx, schedulePath, schedule.Options{
		Sheet:             r.cfg.Schedule.Sheet,
		TimeColumn:        r.cfg.Schedule.TimeColumn,
		LabelColumn:       r.cfg.Schedule.LabelColumn,
		ScoreColumn:       r.cfg.Schedule.ScoreColumn,
		ObservationColumn: r.cfg.Schedule.ObservationColumn,
		EndMarker:         r.cfg.Schedule.SessionEndMarker,
		Location:          loc,
		Date:              date,
		Afternoon:         afternoon,
		Logger:            r.logger,
	})
	if err != nil {
		return summary, err
	}
	summary.Entries = len(sched.Entries)

	if sess.CreateOutputDir {
		if err := os.MkdirAll(summary.OutputDir, 0o755); err != nil {
			return summary, model.Wrap(model.ErrIO, "pipeline", "create output dir", summary.OutputDir, err)
		}
	}

	lock, err := r.acquireLock(summary.OutputDir)
	if err != nil {
		return summary, err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release output lock",
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.Error(unlockErr),
			)
		}
	}()

	job := &sessionJob{
		runner:   r,
		dataDir:  sess.DataDir,
		schedule: sched,
		loader: emotibit.NewLoader(emotibit.Options{
			TimeColumn: r.cfg.Session.TimeColumn,
			Location:   loc,
			Logger:     r.logger,
		}),
		renderer:    render.New(r.cfg, summary.OutputDir, r.logger),
		skipMissing: len(r.cfg.Render.Signals) == 0 || r.cfg.Render.SkipMissing,
	}

	results, runErr := job.runChannels(ctx, r.cfg.SignalCodes(), r.cfg.Render.Workers)
	summary.Results = results
	summary.Elapsed = time.Since(started)
	if runErr != nil {
		logging.ErrorWithContext(logger, "session failed", "session_failed",
			logging.Int("completed_channels", len(results)),
			logging.Error(runErr),
		)
		return summary, runErr
	}

	logger.Info("session completed",
		logging.Int("rendered", summary.Count(StatusRendered)),
		logging.Int("missing", summary.Count(StatusMissing)),
		logging.Int("skipped", summary.Count(StatusSkipped)),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (r *Runner) sessionDate(dataDir string, loc *time.Location) (time.Time, error) {
	date, ok, err := r.cfg.SessionDate()
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return date, nil
	}
	date, ok, err = emotibit.SessionDate(dataDir, loc)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		logging.WarnWithContext(r.logger, "session date unknown", "session_date_missing",
			logging.String("data_dir", dataDir),
			logging.String(logging.FieldErrorHint, "set session.date or keep the YYYY-MM-DD_ prefix on exported files"),
			logging.String(logging.FieldImpact, "schedule times without a date cannot be placed"),
		)
	}
	return date, nil
}

// acquireLock serializes runs writing into the same output folder. The lock
// file lives under the log directory so a missing output folder surfaces as a
// render error for the first channel.
func (r *Runner) acquireLock(outputDir string) (*flock.Flock, error) {
	lockDir := filepath.Join(r.cfg.Paths.LogDir, "locks")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, model.Wrap(model.ErrIO, "pipeline", "create lock dir", lockDir, err)
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = outputDir
	}
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String() + ".lock"
	lock := flock.New(filepath.Join(lockDir, name))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, model.Wrap(model.ErrIO, "pipeline", "acquire lock", outputDir, err)
	}
	if !ok {
		return nil, model.Wrap(model.ErrIO, "pipeline", "acquire lock", "another emotiplot run is writing to "+outputDir, nil)
	}
	return lock, nil
}

type sessionJob struct {
	runner      *Runner
	dataDir     string
	schedule    model.Schedule
	loader      *emotibit.Loader
	renderer    *render.Renderer
	skipMissing bool
}

func (j *sessionJob) runChannels(ctx context.Context, codes []string, workers int) ([]ChannelResult, error) {
	if workers <= 1 || len(codes) <= 1 {
		results := make([]ChannelResult, 0, len(codes))
		for _, code := range codes {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res, err := j.runChannel(ctx, code)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
		return results, nil
	}

	slots := make([]ChannelResult, len(codes))
	done := make([]bool, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, code := range codes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := j.runChannel(gctx, code)
			if err != nil {
				return err
			}
			slots[i] = res
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	results := make([]ChannelResult, 0, len(codes))
	for i := range slots {
		if done[i] {
			results = append(results, slots[i])
		}
	}
	return results, err
}

func (j *sessionJob) runChannel(ctx context.Context, code string) (ChannelResult, error) {
	started := time.Now()
	ctx = logging.WithChannel(ctx, code)
	logger := logging.WithContext(ctx, j.runner.logger)
	result := ChannelResult{Signal: code}

	series, err := j.loader.Load(ctx, j.dataDir, code)
	if err != nil {
		if errors.Is(err, model.ErrNoFiles) && j.skipMissing {
			logging.WarnWithContext(logger, "channel has no exports", "channel_missing",
				logging.String("pattern", emotibit.FilePattern(code)),
				logging.String(logging.FieldImpact, "no plot written for this channel"),
			)
			result.Status = StatusMissing
			result.Reason = "no matching files"
			result.Duration = time.Since(started)
			return result, nil
		}
		return result, fmt.Errorf("channel %s: %w", code, err)
	}
	result.Files = len(series.Sources)

	spans := annotate.Spans(series, j.schedule.Entries)
	var session *model.AnnotationSpan
	if span, ok := annotate.SessionSpan(series, j.schedule); ok {
		session = &span
	}

	rendered, err := j.renderer.Render(ctx, series, spans, session)
	result.Samples = rendered.Samples
	result.Spans = rendered.Spans
	result.Levels = rendered.Levels
	result.Duration = time.Since(started)
	if err != nil {
		return result, fmt.Errorf("channel %s: %w", code, err)
	}
	if rendered.Skipped {
		result.Status = StatusSkipped
		result.Reason = rendered.Reason
		return result, nil
	}
	result.Status = StatusRendered
	result.Path = rendered.Path
	result.Bytes = rendered.Bytes
	return result, nil
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return "unknown"
	}
	return date.Format("2006-01-02")
}
