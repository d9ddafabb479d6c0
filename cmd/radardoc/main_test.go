package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"baseline", "coherence", "coregistration", "diagnose", "inspect"}, names)
}

func TestRootCmd_RequiresRoot(t *testing.T) {
	_, err := execute(t, "baseline")
	require.Error(t, err)
}

func TestRootCmd_BadLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "inspect", "x.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCmd_MissingRoot(t *testing.T) {
	_, err := execute(t, "diagnose", t.TempDir()+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading root folder")
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := execute(t, "inspect", t.TempDir()+"/missing.docx")
	assert.Error(t, err)
}
