package report

import (
	"time"

	"github.com/theiagen/nf-theia/pkg/models"
)

// Logger defines the logging interface for the report engine.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Builder assembles task reports and the run-end collated report.
type Builder struct {
	logger Logger
}

func NewBuilder(logger Logger) *Builder {
	return &Builder{logger: logger}
}

// Build creates the report for one completed task. Published files are
// filled best-effort from the correlator's current state; publish events
// that have not arrived yet are picked up by the run-completion resync.
// Returns nil when the task produced no output files, in which case no
// report is emitted.
func (b *Builder) Build(task models.TaskEvent, correlator *Correlator) *models.TaskReport {
	groups := GroupOutputs(task.Declared, task.Outputs)
	if groups.FileCount() == 0 {
		b.logger.Infof("Task %s produced no output files, skipping report", task.TaskName())
		return nil
	}

	var tag *string
	if task.Tag != "" {
		t := task.Tag
		tag = &t
	}
	rep := &models.TaskReport{
		Process:   task.Process,
		Tag:       tag,
		TaskName:  task.TaskName(),
		WorkDir:   task.WorkDir,
		Outputs:   groups,
		Timestamp: models.ReportTimestamp(time.Now()),
	}
	b.Resync(rep, correlator)
	return rep
}

// Resync rebuilds every group's published-file list from the
// correlator's current state. Reports built before their files were
// published converge once this runs at run completion.
func (b *Builder) Resync(rep *models.TaskReport, correlator *Correlator) {
	for _, name := range rep.Outputs.Names() {
		g, _ := rep.Outputs.Get(name)
		published := []string{}
		for _, f := range g.WorkDirFiles {
			published = append(published, correlator.Destinations(f)...)
		}
		g.PublishedFiles = published
	}
}

// Collate resyncs every report against the correlator and wraps the set
// with a workflow summary. Task order is preserved (completion order).
func (b *Builder) Collate(reports []*models.TaskReport, correlator *Correlator) models.CollatedReport {
	tasks := make([]*models.TaskReport, 0, len(reports))
	for _, rep := range reports {
		c := rep.Clone()
		b.Resync(c, correlator)
		tasks = append(tasks, c)
	}
	return models.CollatedReport{
		Workflow: models.WorkflowSummary{
			TotalTasks: len(tasks),
			Timestamp:  models.ReportTimestamp(time.Now()),
		},
		Tasks: tasks,
	}
}
