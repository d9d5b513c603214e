package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetMigrateCmd_Exists verifies getMigrateCmd returns
// a valid command.
func TestGetMigrateCmd_Exists(t *testing.T) {
	cmd := getMigrateCmd()
	require.NotNil(t, cmd, "Migrate command should exist")
	assert.Equal(t, "migrate", cmd.Use,
		"Command name should be migrate")
	assert.NotNil(t, cmd.RunE, "RunE should be set")
}

// TestGetMigrateCmd_Descriptions verifies short and long
// descriptions.
func TestGetMigrateCmd_Descriptions(t *testing.T) {
	cmd := getMigrateCmd()

	assert.Contains(t, cmd.Short, "schema",
		"Short description should mention schema")
	assert.Contains(t, cmd.Long, "GORM AutoMigrate",
		"Long description should mention GORM")
	assert.Contains(t, cmd.Long, "non-destructive",
		"Long description should mention data safety")
}

// TestGetMigrateCmd_HelpText verifies help text content.
func TestGetMigrateCmd_HelpText(t *testing.T) {
	cmd := getMigrateCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "Examples:",
		"Help should include examples")
	assert.Contains(t, helpText, "gnpia migrate",
		"Should show basic example")
	assert.Contains(t, helpText, "does not delete",
		"Help should mention what it doesn't do")
}

// TestGetMigrateCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetMigrateCmd_IndependentInstances(t *testing.T) {
	cmd1 := getMigrateCmd()
	cmd2 := getMigrateCmd()

	assert.NotSame(t, cmd1, cmd2,
		"Each call should return new instance")
}
