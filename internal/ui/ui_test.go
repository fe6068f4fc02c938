package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhipster/jhipster-go/internal/core/templates"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldErr := Out, Err
	Out, Err = &buf, &buf
	t.Cleanup(func() { Out, Err = oldOut, oldErr })
	return &buf
}

func TestPrintResults(t *testing.T) {
	buf := capture(t)
	PrintResults([]templates.Result{
		{Path: "pom.xml", Status: templates.StatusCreate},
		{Path: "README.md", Status: templates.StatusConflict, Diff: "-old\n+new\n"},
		{Path: ".gitignore", Status: templates.StatusIdentical},
	}, true)

	out := buf.String()
	assert.Contains(t, out, "pom.xml")
	assert.Contains(t, out, "README.md")
	assert.Contains(t, out, "+new")
	assert.Contains(t, out, "1 created, 1 identical, 0 overwritten, 1 conflicts")
	assert.Contains(t, out, "--force")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(".gitignore")), bytes.Index(buf.Bytes(), []byte("pom.xml")))
}

func TestPrintResults_NoConflicts(t *testing.T) {
	buf := capture(t)
	PrintResults([]templates.Result{{Path: "a", Status: templates.StatusForce}}, false)
	assert.Contains(t, buf.String(), "0 created, 0 identical, 1 overwritten, 0 conflicts")
	assert.NotContains(t, buf.String(), "--force")
}

func TestMessages(t *testing.T) {
	buf := capture(t)
	PrintSuccess("done %d", 3)
	PrintError("failed %s", "x")
	PrintWarning("careful")
	PrintInfo("note")
	PrintStep(1, 2, "step")
	PrintList([]string{"one", "two"})

	out := buf.String()
	for _, want := range []string{"done 3", "failed x", "careful", "note", "[1/2] step", "• one", "• two"} {
		assert.Contains(t, out, want)
	}
}

func TestPrintTable(t *testing.T) {
	buf := capture(t)
	require.NoError(t, PrintTable([]string{"Name", "Value"}, [][]string{{"baseName", "jhipster"}}))
	assert.Contains(t, buf.String(), "baseName")
	assert.Contains(t, buf.String(), "jhipster")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Next steps\n\nRun `./mvnw`\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Next steps")
	assert.Contains(t, out, "./mvnw")
}

func TestPrintBox(t *testing.T) {
	buf := capture(t)
	PrintBox("Conflicts", "2 file(s) differ")
	assert.Contains(t, buf.String(), "Conflicts")
	assert.Contains(t, buf.String(), "2 file(s) differ")
}
