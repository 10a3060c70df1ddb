package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tckz/go-csvsplit"
)

func writeInput(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte(content), 0o644))
	return dir, in
}

func TestRun(t *testing.T) {
	dir, in := writeInput(t, "id,email\n1,a@x.com\n2,b@y.com\n3,nomatch\n")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := run(context.Background(), []string{
		"-i", in,
		"-g", `email:@(\w+)\.com`,
		"-o", filepath.Join(dir, "out-{group}.csv"),
	}, stdout, stderr)

	require.Equal(t, csvsplit.ExitOK, code, stdout.String())
	assert.Contains(t, stdout.String(), "Total rows: 3\nNoMatchesOnRegex: 1\nx: 1\ny: 1\n")
	assert.FileExists(t, filepath.Join(dir, "out-x.csv"))
	assert.FileExists(t, filepath.Join(dir, "out-y.csv"))
	assert.FileExists(t, filepath.Join(dir, "out-NoMatchesOnRegex.csv"))
}

func TestRunRowPerOutputFile(t *testing.T) {
	dir, in := writeInput(t, "id,email\n1,a@x.com;b@y.com\n")
	stdout := &bytes.Buffer{}

	code := run(context.Background(), []string{
		"--input", in,
		"--group", `email:@(\w+)\.com`,
		"--output", filepath.Join(dir, "{group}.csv"),
		"--rowPerOutputFile",
	}, stdout, &bytes.Buffer{})

	require.Equal(t, csvsplit.ExitOK, code, stdout.String())
	assert.Contains(t, stdout.String(), "MultipleMatchesOnRegex: 1\n")
	assert.NoFileExists(t, filepath.Join(dir, "x.csv"))
}

func TestRunErrors(t *testing.T) {
	dir, in := writeInput(t, "id,email\n1,a@x.com\n")
	out := filepath.Join(dir, "{group}.csv")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing placeholder", []string{"-i", in, "-g", `email:(\w+)`, "-o", filepath.Join(dir, "out.csv")}, csvsplit.ExitConfig},
		{"missing group", []string{"-i", in, "-o", out}, csvsplit.ExitConfig},
		{"group without colon", []string{"-i", in, "-g", "email", "-o", out}, csvsplit.ExitConfig},
		{"missing input", []string{"-g", `email:(\w+)`, "-o", out}, csvsplit.ExitConfig},
		{"unknown flag", []string{"--nope"}, csvsplit.ExitConfig},
		{"positional args", []string{"-i", in, "-g", `email:(\w+)`, "-o", out, "extra"}, csvsplit.ExitConfig},
		{"invalid regex", []string{"-i", in, "-g", "email:(", "-o", out}, csvsplit.ExitPattern},
		{"no capture group", []string{"-i", in, "-g", `email:\w+`, "-o", out}, csvsplit.ExitPattern},
		{"input not found", []string{"-i", filepath.Join(dir, "none.csv"), "-g", `email:(\w+)`, "-o", out}, csvsplit.ExitInput},
		{"unknown column", []string{"-i", in, "-g", `mail:(\w+)`, "-o", out}, csvsplit.ExitInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			code := run(context.Background(), tt.args, stdout, &bytes.Buffer{})
			assert.Equal(t, tt.want, code, stdout.String())
			assert.Contains(t, stdout.String(), "*** ")
		})
	}
}

func TestRunOutputError(t *testing.T) {
	dir, in := writeInput(t, "id,email\n1,a@x.com\n")
	// a regular file where a directory is needed
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	stdout := &bytes.Buffer{}
	code := run(context.Background(), []string{
		"-i", in,
		"-g", `email:@(\w+)`,
		"-o", filepath.Join(blocker, "{group}", "out.csv"),
	}, stdout, &bytes.Buffer{})

	assert.Equal(t, csvsplit.ExitOutput, code)
	assert.Contains(t, stdout.String(), "left in place")
}
