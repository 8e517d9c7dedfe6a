package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeai-operations/alex-cli/internal/model"
)

func newListFlagsCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "list"}
	cmd.Flags().String("type", "", "")
	cmd.Flags().String("state", "", "")
	cmd.Flags().String("status", "", "")
	cmd.Flags().Int("limit", 0, "")
	cmd.Flags().Int("offset", 0, "")
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

func TestFilterFromFlags(t *testing.T) {
	cmd := newListFlagsCmd(t, map[string]string{
		"type":   "tree_removal",
		"state":  "georgia",
		"status": "quoted",
		"limit":  "25",
		"offset": "50",
	})

	filter := filterFromFlags(cmd)
	assert.Equal(t, "tree_removal", filter.ProjectType)
	assert.Equal(t, "georgia", filter.State)
	assert.Equal(t, model.AssessmentStatusQuoted, filter.Status)
	assert.Equal(t, 25, filter.Limit)
	assert.Equal(t, 50, filter.Offset)
}

func TestFilterFromFlagsEmpty(t *testing.T) {
	filter := filterFromFlags(newListFlagsCmd(t, nil))
	assert.Equal(t, model.Filter{}, filter)
}
