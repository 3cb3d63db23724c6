package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TaskOutputGroup is one logical output of a task: the files it produced
// in the work directory and, once publishing has happened, the
// destinations they were published to. The group's name lives in the
// enclosing OutputMap key.
type TaskOutputGroup struct {
	WorkDirFiles   []string `json:"workDirFiles"`
	PublishedFiles []string `json:"publishedFiles"`
}

// AddWorkDirFile appends a work-directory path, skipping duplicates while
// preserving insertion order. Glob expansion can hand the same path to a
// group more than once.
func (g *TaskOutputGroup) AddWorkDirFile(path string) {
	for _, f := range g.WorkDirFiles {
		if f == path {
			return
		}
	}
	g.WorkDirFiles = append(g.WorkDirFiles, path)
}

func (g *TaskOutputGroup) clone() *TaskOutputGroup {
	c := &TaskOutputGroup{
		WorkDirFiles:   make([]string, len(g.WorkDirFiles)),
		PublishedFiles: make([]string, len(g.PublishedFiles)),
	}
	copy(c.WorkDirFiles, g.WorkDirFiles)
	copy(c.PublishedFiles, g.PublishedFiles)
	return c
}

// OutputMap maps output names to their groups while preserving insertion
// order, which a plain Go map cannot. Order equals output-declaration
// order and is kept through JSON round trips.
type OutputMap struct {
	names  []string
	groups map[string]*TaskOutputGroup
}

func NewOutputMap() *OutputMap {
	return &OutputMap{groups: make(map[string]*TaskOutputGroup)}
}

// Add returns the group for name, creating it at the end of the order if
// it does not exist yet.
func (m *OutputMap) Add(name string) *TaskOutputGroup {
	if g, ok := m.groups[name]; ok {
		return g
	}
	g := &TaskOutputGroup{
		WorkDirFiles:   []string{},
		PublishedFiles: []string{},
	}
	m.names = append(m.names, name)
	m.groups[name] = g
	return g
}

func (m *OutputMap) Get(name string) (*TaskOutputGroup, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// Names returns the output names in insertion order.
func (m *OutputMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

func (m *OutputMap) Len() int {
	return len(m.names)
}

// FileCount returns the total number of work-directory files across all
// groups.
func (m *OutputMap) FileCount() int {
	n := 0
	for _, name := range m.names {
		n += len(m.groups[name].WorkDirFiles)
	}
	return n
}

func (m *OutputMap) clone() *OutputMap {
	c := NewOutputMap()
	for _, name := range m.names {
		c.names = append(c.names, name)
		c.groups[name] = m.groups[name].clone()
	}
	return c
}

// MarshalJSON emits a JSON object whose keys follow insertion order.
func (m *OutputMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.groups[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object token by token so key order is kept.
func (m *OutputMap) UnmarshalJSON(data []byte) error {
	m.names = nil
	m.groups = make(map[string]*TaskOutputGroup)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("outputs: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("outputs: expected string key, got %v", keyTok)
		}
		var g TaskOutputGroup
		if err := dec.Decode(&g); err != nil {
			return err
		}
		if g.WorkDirFiles == nil {
			g.WorkDirFiles = []string{}
		}
		if g.PublishedFiles == nil {
			g.PublishedFiles = []string{}
		}
		m.names = append(m.names, name)
		m.groups[name] = &g
	}
	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// TaskReport is the per-task report persisted as
// "<process>_<tag>.json" / "<process>.json".
type TaskReport struct {
	Process   string     `json:"process"`
	Tag       *string    `json:"tag"`
	TaskName  string     `json:"taskName"`
	WorkDir   string     `json:"workDir"`
	Outputs   *OutputMap `json:"outputs"`
	Timestamp string     `json:"timestamp"`
}

// FileName computes the persisted file name for the report.
func (r *TaskReport) FileName() string {
	if r.Tag != nil && *r.Tag != "" {
		return fmt.Sprintf("%s_%s.json", r.Process, *r.Tag)
	}
	return r.Process + ".json"
}

// Clone deep-copies the report so JSON marshalling can happen outside the
// lock that guards the live instance.
func (r *TaskReport) Clone() *TaskReport {
	c := *r
	if r.Tag != nil {
		tag := *r.Tag
		c.Tag = &tag
	}
	if r.Outputs != nil {
		c.Outputs = r.Outputs.clone()
	}
	return &c
}

// WorkflowSummary heads the collated report.
type WorkflowSummary struct {
	TotalTasks int    `json:"totalTasks"`
	Timestamp  string `json:"timestamp"`
}

// CollatedReport aggregates every task report of one run, in completion
// order.
type CollatedReport struct {
	Workflow WorkflowSummary `json:"workflow"`
	Tasks    []*TaskReport   `json:"tasks"`
}

// ReportTimestamp formats a report timestamp. All reports of a run use
// the same formatting so collated and individual files agree.
func ReportTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
