package snake

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	for _, in := range []string{"y", "Yes", "true", "1"} {
		v, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"n", "No", "false", "0"} {
		v, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.False(t, v, in)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestCandidatesSkipsHiddenAndInteractive(t *testing.T) {
	cmd := &cobra.Command{Use: "add"}
	cmd.Flags().String("url", "", "link")
	cmd.Flags().Bool("interactive", false, "wizard")
	cmd.Flags().Bool("secret", false, "hidden")
	require.NoError(t, cmd.Flags().MarkHidden("secret"))

	var names []string
	for _, f := range Candidates(cmd) {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"url"}, names)
}

func TestValidateValue(t *testing.T) {
	cmd := &cobra.Command{Use: "search"}
	cmd.Flags().Int("max-results", 0, "")
	cmd.Flags().Duration("latency", 0, "")
	cmd.Flags().String("group", "", "")

	assert.NoError(t, ValidateValue(cmd.Flags().Lookup("max-results"), "5"))
	assert.Error(t, ValidateValue(cmd.Flags().Lookup("max-results"), "five"))
	assert.NoError(t, ValidateValue(cmd.Flags().Lookup("latency"), "250ms"))
	assert.Error(t, ValidateValue(cmd.Flags().Lookup("latency"), "soon"))
	assert.NoError(t, ValidateValue(cmd.Flags().Lookup("group"), "anything"))
}
