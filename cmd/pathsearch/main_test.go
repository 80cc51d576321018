package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/rxnpath/internal/domain/domaintest"
	"github.com/vanshika/rxnpath/internal/refdata"
	"github.com/vanshika/rxnpath/internal/service"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, refdata.Write(dir, domaintest.SixReactions()))

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSearchCommand_JSON(t *testing.T) {
	out, err := execute(t, "search", "--compounds", "1,3", "--json")
	require.NoError(t, err)

	var resp service.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, []string{"2", "6"}, resp.Results[0].Reactions)
}

func TestSearchCommand_Table(t *testing.T) {
	out, err := execute(t, "search", "--compounds", "any,1", "--enzymes", "1", "--exhaustive")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Contains(t, out, "6 -> 3")
	assert.Contains(t, out, "2 pathways")
}

func TestSearchCommand_InvalidRequest(t *testing.T) {
	_, err := execute(t, "search", "--compounds", "1")
	assert.ErrorIs(t, err, service.ErrInvalidParameters)
}

func TestReactionAndCompoundCommands(t *testing.T) {
	out, err := execute(t, "reaction", "RHEA:2")
	require.NoError(t, err)
	assert.Contains(t, out, "C1 + C2 = C5 + C6")

	out, err = execute(t, "compounds", "C4")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 matches")
}
