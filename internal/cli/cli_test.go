package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"quincunx/internal/sweep"
)

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, ids sweep.IDGenerator, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand(ids)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
