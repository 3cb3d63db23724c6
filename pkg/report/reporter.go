package report

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/theiagen/nf-theia/pkg/models"
	"github.com/theiagen/nf-theia/pkg/scheme"
	"github.com/theiagen/nf-theia/pkg/storage"
)

// backfillWorkers bounds the parallel report rewrites at run completion.
const backfillWorkers = 4

// trackedReport pairs a live task report with the destinations it was
// written to, for the run-completion backfill pass.
type trackedReport struct {
	report       *models.TaskReport
	destinations []string
	publishDirs  []string
}

// Reporter drives the end-to-end reporting sequence for one workflow run:
// write each task's report immediately on completion, feed publish events
// to the correlator, and at run completion backfill published paths into
// every written report plus (optionally) one collated report per common
// publish root.
//
// The host engine delivers events from multiple goroutines in no
// guaranteed order between the two event streams. The reporter's mutex
// guards the tracked-report list and the live report instances; JSON
// marshalling and writing always happen outside it, on deep copies.
//
// A reporting failure must never fail the workflow: every write error is
// logged with its destination and dropped.
type Reporter struct {
	writer  *storage.Writer
	builder *Builder
	logger  Logger

	mu         sync.Mutex
	cfg        models.ReporterConfig
	runID      string
	correlator *Correlator
	tracked    []*trackedReport
	started    bool
}

func NewReporter(writer *storage.Writer, logger Logger) *Reporter {
	return &Reporter{
		writer:  writer,
		builder: NewBuilder(logger),
		logger:  logger,
	}
}

// OnRunStart initializes run-scoped state from the host's configuration.
// When reporting is disabled the reporter stays inert and every
// subsequent event is ignored.
func (r *Reporter) OnRunStart(cfg models.ReporterConfig) {
	if cfg.CollatedFileName == "" {
		cfg.CollatedFileName = models.DefaultCollatedFileName
	}
	if !cfg.Enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.runID = uuid.NewString()
	r.correlator = NewCorrelator()
	r.tracked = nil
	r.started = true
	r.logger.Infof("File reporting enabled for run %s (collate=%v)", r.runID, r.cfg.Collate)
}

// OnFilePublished records a publish event. Correlation is decoupled from
// report writing so the two event streams can arrive in any order.
func (r *Reporter) OnFilePublished(sourcePath, destinationPath string) {
	r.mu.Lock()
	correlator := r.correlator
	started := r.started
	r.mu.Unlock()
	if !started {
		return
	}
	correlator.Record(sourcePath, destinationPath)
}

// OnTaskComplete builds and writes the report for one finished task.
// Failed tasks and tasks without output files produce no report.
func (r *Reporter) OnTaskComplete(ctx context.Context, task models.TaskEvent) {
	r.mu.Lock()
	correlator := r.correlator
	started := r.started
	cfg := r.cfg
	r.mu.Unlock()
	if !started {
		return
	}
	if !task.Success {
		r.logger.Infof("Task %s did not succeed, skipping report", task.TaskName())
		return
	}

	rep := r.builder.Build(task, correlator)
	if rep == nil {
		return
	}

	fileName := rep.FileName()
	var destinations []string
	for _, dir := range task.PublishDirs {
		destinations = append(destinations, scheme.Join(dir, fileName))
	}
	if cfg.WriteToWorkDir && task.WorkDir != "" {
		destinations = append(destinations, scheme.Join(task.WorkDir, fileName))
	}

	tr := &trackedReport{
		report:       rep,
		destinations: destinations,
		publishDirs:  task.PublishDirs,
	}
	r.mu.Lock()
	r.tracked = append(r.tracked, tr)
	snapshot := rep.Clone()
	r.mu.Unlock()

	r.writeReport(ctx, snapshot, destinations)
}

// OnRunComplete backfills published paths into every written report and,
// when collation is enabled, writes the collated report to each common
// publish root. Run-scoped state is discarded afterwards.
func (r *Reporter) OnRunComplete(ctx context.Context) {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	correlator := r.correlator
	cfg := r.cfg
	tracked := make([]*trackedReport, len(r.tracked))
	copy(tracked, r.tracked)
	r.mu.Unlock()

	// Resync and rewrite each individual report. Failures are logged per
	// destination and never abort the rest of the pass.
	g := &errgroup.Group{}
	g.SetLimit(backfillWorkers)
	for _, tr := range tracked {
		tr := tr
		g.Go(func() error {
			r.mu.Lock()
			r.builder.Resync(tr.report, correlator)
			snapshot := tr.report.Clone()
			r.mu.Unlock()
			r.writeReport(ctx, snapshot, tr.destinations)
			return nil
		})
	}
	_ = g.Wait()

	if cfg.Collate {
		r.writeCollated(ctx, cfg, correlator, tracked)
	}

	r.mu.Lock()
	r.logger.Infof("File reporting finished for run %s: %d reports, %d correlated sources",
		r.runID, len(tracked), correlator.Size())
	r.correlator = nil
	r.tracked = nil
	r.started = false
	r.mu.Unlock()
}

func (r *Reporter) writeCollated(ctx context.Context, cfg models.ReporterConfig, correlator *Correlator, tracked []*trackedReport) {
	reports := make([]*models.TaskReport, 0, len(tracked))
	var publishDirs []string
	for _, tr := range tracked {
		r.mu.Lock()
		reports = append(reports, tr.report.Clone())
		r.mu.Unlock()
		publishDirs = append(publishDirs, tr.publishDirs...)
	}
	if len(reports) == 0 {
		return
	}

	collated := r.builder.Collate(reports, correlator)
	data, err := json.MarshalIndent(collated, "", "  ")
	if err != nil {
		r.logger.Errorf("Failed to marshal collated report: %v", err)
		return
	}

	bases := commonRoots(publishDirs)
	if len(bases) == 0 {
		r.logger.Infof("No publish directories seen, skipping collated report")
		return
	}
	for _, base := range bases {
		target := scheme.Join(base, cfg.CollatedFileName)
		if err := r.writer.Write(ctx, target, data); err != nil {
			r.logger.Errorf("Failed to write collated report to %s: %v", target, err)
		}
	}
}

// writeReport marshals a report snapshot and writes it to every
// destination, logging and skipping failures.
func (r *Reporter) writeReport(ctx context.Context, rep *models.TaskReport, destinations []string) {
	if len(destinations) == 0 {
		return
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		r.logger.Errorf("Failed to marshal report for %s: %v", rep.TaskName, err)
		return
	}
	for _, dest := range destinations {
		if err := r.writer.Write(ctx, dest, data); err != nil {
			r.logger.Errorf("Failed to write report for %s to %s: %v", rep.TaskName, dest, err)
		}
	}
}
