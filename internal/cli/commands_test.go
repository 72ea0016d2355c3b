package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quincunx/internal/sweep"
)

func TestCheck_Text(t *testing.T) {
	out, _, err := execute(t, nil, "check")
	require.NoError(t, err)
	assertGolden(t, "check", out)
}

func TestCheck_TestAlias(t *testing.T) {
	out, _, err := execute(t, nil, "test", "--max-beads", "1", "--max-slots", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "checked 4 machines")
}

func TestCheck_JSON(t *testing.T) {
	out, _, err := execute(t, nil, "check", "--max-beads", "4", "--max-slots", "6", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.OK)
	assert.Equal(t, 5*6, resp.Data.Machines)
	assert.Empty(t, resp.Data.Violations)
}

func TestCheck_RejectsBadBounds(t *testing.T) {
	_, _, err := execute(t, nil, "check", "--max-slots", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSweep_JSON(t *testing.T) {
	path := writePlan(t, `name: demo
seed: 11
experiments:
  - name: luck
    beads: 120
    mode: luck
  - name: skill
    beads: 80
    mode: skill
    repeats: 1
    trim: upper
`)
	ids := sweep.NewFixedGenerator("run-1", "run-2")
	out, _, err := execute(t, ids, "sweep", path, "--workers", "2", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   SweepReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "demo", resp.Data.Plan)
	require.Len(t, resp.Data.Results, 2)

	luck := resp.Data.Results[0]
	assert.Equal(t, "run-1", luck.RunID)
	assert.Equal(t, int64(11), luck.Seed)
	assert.Equal(t, 120, total(luck.Rounds[0].Counts))

	skill := resp.Data.Results[1]
	assert.Equal(t, "run-2", skill.RunID)
	assert.Equal(t, int64(12), skill.Seed)
	require.Len(t, skill.Rounds, 2)
	assert.Equal(t, 40, total(skill.Rounds[0].Counts))
	assert.Equal(t, 20, total(skill.Rounds[1].Counts))
}

func TestSweep_Text(t *testing.T) {
	path := writePlan(t, `name: empty-board
experiments:
  - name: nothing
    beads: 0
    mode: luck
    slots: 3
    seed: 5
`)
	out, _, err := execute(t, sweep.NewFixedGenerator("0190a0b0-0000-7000-8000-000000000000"), "sweep", path)
	require.NoError(t, err)
	assert.Equal(t, `plan empty-board: 1 experiment(s)

0190a0b0-0000-7000-8000-000000000000  nothing  (luck, 0 beads, 3 slots, seed 5)
  round 0  avg 0.00  0 0 0
`, out)
}

func TestSweep_BadPlan(t *testing.T) {
	path := writePlan(t, "name: broken\nexperiments: []\n")
	out, _, err := execute(t, nil, "sweep", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestSweep_MissingFile(t *testing.T) {
	_, _, err := execute(t, nil, "sweep", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read plan file")
}

func TestParams_Text(t *testing.T) {
	out, _, err := execute(t, nil, "params")
	require.NoError(t, err)
	assertGolden(t, "params_luck", out)
}

func TestParams_JSON(t *testing.T) {
	out, _, err := execute(t, nil, "params", "skill", "--beads", "12", "--slots", "6", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Groups []struct {
				Name   string `json:"name"`
				Params []struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"params"`
			} `json:"groups"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Groups, 2)

	values := map[string]string{}
	for _, g := range resp.Data.Groups {
		for _, p := range g.Params {
			values[p.Key] = p.Value
		}
	}
	assert.Equal(t, "skill", values["mode"])
	assert.Equal(t, "12", values["beads"])
	assert.Equal(t, "6", values["slots"])
	assert.Equal(t, "11", values["remaining"])
}

func TestParams_UnknownBoard(t *testing.T) {
	_, _, err := execute(t, nil, "params", "chance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown board "chance"`)
}
