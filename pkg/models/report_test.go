package models_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/theiagen/nf-theia/pkg/models"
)

func TestOutputMap_OrderSurvivesJSONRoundTrip(t *testing.T) {
	m := models.NewOutputMap()
	// names chosen so lexical order differs from insertion order
	m.Add("zebra").AddWorkDirFile("/w/z.txt")
	m.Add("alpha").AddWorkDirFile("/w/a.txt")
	m.Add("output_2")

	data, err := json.Marshal(m)
	assert.NoError(t, err)

	var back models.OutputMap
	assert.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"zebra", "alpha", "output_2"}, back.Names())

	g, ok := back.Get("zebra")
	assert.True(t, ok)
	assert.Equal(t, []string{"/w/z.txt"}, g.WorkDirFiles)

	// empty groups stay empty lists, not null
	assert.Contains(t, string(data), `"output_2":{"workDirFiles":[],"publishedFiles":[]}`)
}

func TestOutputMap_AddIsGetOrCreate(t *testing.T) {
	m := models.NewOutputMap()
	g1 := m.Add("first")
	g2 := m.Add("first")
	assert.Same(t, g1, g2)
	assert.Equal(t, 1, m.Len())
}

func TestTaskOutputGroup_AddWorkDirFileDedupes(t *testing.T) {
	g := &models.TaskOutputGroup{}
	g.AddWorkDirFile("/w/a.txt")
	g.AddWorkDirFile("/w/b.txt")
	g.AddWorkDirFile("/w/a.txt")
	assert.Equal(t, []string{"/w/a.txt", "/w/b.txt"}, g.WorkDirFiles)
}

func TestTaskReport_CloneIsIndependent(t *testing.T) {
	tag := "s1"
	rep := &models.TaskReport{
		Process:  "ANALYZE",
		Tag:      &tag,
		TaskName: "ANALYZE (s1)",
		Outputs:  models.NewOutputMap(),
	}
	rep.Outputs.Add("first").AddWorkDirFile("/w/a.txt")

	c := rep.Clone()
	g, _ := c.Outputs.Get("first")
	g.PublishedFiles = append(g.PublishedFiles, "/out/a.txt")
	*c.Tag = "changed"

	orig, _ := rep.Outputs.Get("first")
	assert.Empty(t, orig.PublishedFiles)
	assert.Equal(t, "s1", *rep.Tag)
}

func TestTaskReport_FileName(t *testing.T) {
	tag := "s1"
	rep := &models.TaskReport{Process: "ANALYZE", Tag: &tag}
	assert.Equal(t, "ANALYZE_s1.json", rep.FileName())

	rep.Tag = nil
	assert.Equal(t, "ANALYZE.json", rep.FileName())
}

func TestDefaultReporterConfig(t *testing.T) {
	cfg := models.DefaultReporterConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.Collate)
	assert.False(t, cfg.WriteToWorkDir)
	assert.Equal(t, "workflow_files.json", cfg.CollatedFileName)
}

func TestLoadReporterConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reporter.yml")
	assert.NoError(t, os.WriteFile(path, []byte("enabled: true\ncollate: true\n"), 0o644))

	cfg, err := models.LoadReporterConfig(path)
	assert.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Collate)
	// absent fields keep their defaults
	assert.False(t, cfg.WriteToWorkDir)
	assert.Equal(t, "workflow_files.json", cfg.CollatedFileName)

	_, err = models.LoadReporterConfig(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
