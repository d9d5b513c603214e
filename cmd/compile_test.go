package cmd

import (
	"bytes"
	"testing"

	"github.com/gnames/gnpia/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCompileCmd_Flags(t *testing.T) {
	cmd := getCompileCmd()
	assert.Equal(t, "compile", cmd.Name())

	tests := []struct {
		name, short string
	}{
		{"output", "o"},
		{"jobs", "j"},
	}
	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			f := cmd.Flags().Lookup(v.name)
			require.NotNil(t, f)
			assert.Equal(t, v.short, f.Shorthand)
		})
	}
}

func TestGetCompileCmd_Args(t *testing.T) {
	cmd := getCompileCmd()
	assert.Error(t, cmd.Args(cmd, nil), "input files are required")
	assert.NoError(t, cmd.Args(cmd, []string{"a.tsv", "b.mzid"}))
}

func TestGetCompileCmd_HelpText(t *testing.T) {
	cmd := getCompileCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	helpText := buf.String()
	assert.Contains(t, helpText, "mzIdentML")
	assert.Contains(t, helpText, "gnpia compile -o")
}

func TestCompileFlagOptions(t *testing.T) {
	cmd := getCompileCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-o", "out.gnpia"}))

	c := config.New()
	jobs := c.JobsNumber
	c.Update(flagOptions(cmd,
		stringFlag("output", config.OptCompileOutputFile),
		intFlag("jobs", config.OptJobsNumber),
	))
	assert.Equal(t, "out.gnpia", c.Compile.OutputFile)
	// unchanged flag keeps the configured value
	assert.Equal(t, jobs, c.JobsNumber)
}
