package models

// OutputDecl is one declared output of a process, supplied by the host
// engine at task-definition time as a stable ordered list.
type OutputDecl struct {
	Index int    `json:"index"`          // position in the process signature
	Name  string `json:"name,omitempty"` // logical (emit) name, empty when undeclared
}

// OutputValue is one flattened runtime output parameter of a completed
// task. The host engine may decompose a multi-value declaration (e.g. a
// tuple) into several flattened parameters before this component sees
// them; DeclIndex is -1 when the host could not preserve the link, in
// which case Description may carry an embedded "<origIndex:subIndex>"
// marker instead.
type OutputValue struct {
	DeclIndex   int      `json:"declIndex"`
	Description string   `json:"description,omitempty"`
	Values      []string `json:"values"` // mix of paths and scalars
}

// TaskEvent is the task-completion event delivered by the host engine.
type TaskEvent struct {
	Process     string        `json:"process"`
	Tag         string        `json:"tag,omitempty"`
	WorkDir     string        `json:"workDir"`
	Success     bool          `json:"success"`
	Declared    []OutputDecl  `json:"declared,omitempty"` // nil when the host API cannot expose declarations
	Outputs     []OutputValue `json:"outputs"`
	PublishDirs []string      `json:"publishDirs,omitempty"` // enabled publish destinations for this task
}

// TaskName is the human label used in reports, "process (tag)" when a tag
// is present.
func (e TaskEvent) TaskName() string {
	if e.Tag != "" {
		return e.Process + " (" + e.Tag + ")"
	}
	return e.Process
}
