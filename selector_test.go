package csvsplit

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSelector(svc service) *Selector {
	s := NewSelector()
	s.svc = svc
	s.now = fixedClock(250 * time.Millisecond)
	s.Log.Out = io.Discard
	return s
}

const selectInput = `id,name,email
1,"Doe, John",a@x.com
2,Jane,b@y.com
`

func TestProjection(t *testing.T) {
	rr, err := NewRowReader(strings.NewReader(selectInput))
	require.NoError(t, err)

	p, err := NewProjection(rr.Header(), []ColumnSpec{
		{Source: "email", Output: "mail"},
		{Source: "id", Output: "id"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mail", "id"}, p.Header())

	row, err := rr.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "1"}, p.Apply(row, nil))
}

func TestProjectionMissingColumn(t *testing.T) {
	_, err := NewProjection(NewHeader([]string{"id"}), []ColumnSpec{{Source: "email", Output: "email"}})
	assert.ErrorIs(t, err, ErrInput)
}

func TestSelect(t *testing.T) {
	mock, fs := newMemService(t, selectInput)
	s := newTestSelector(mock)

	param := SelectParam{
		Input:  "in/file0.csv",
		Output: "out/selected.csv",
		Columns: []ColumnSpec{
			{Source: "name", Output: "full_name"},
			{Source: "id", Output: "id"},
		},
	}
	summary, err := s.Do(context.Background(), param)
	require.NoError(t, err)

	assert.Equal(t, "full_name,id\n\"Doe, John\",1\nJane,2\n", fs.outputs["out/selected.csv"].String())
	assert.Equal(t, 1, fs.closed["out/selected.csv"])
	assert.Equal(t, int64(2), summary.Total)

	out := &bytes.Buffer{}
	summary.FprintSelect(out, param.Output)
	assert.Equal(t, "Elapsed: 0.25 seconds\nCompleted: 2 rows written to out/selected.csv\n", out.String())
}

func TestSelectIdentityRoundTrip(t *testing.T) {
	mock, fs := newMemService(t, selectInput)
	s := newTestSelector(mock)

	cols, err := ParseColumnSpecs([]string{"id", "name", "email"})
	require.NoError(t, err)
	_, err = s.Do(context.Background(), SelectParam{
		Input:   "in/file0.csv",
		Output:  "out.csv",
		Columns: cols,
	})
	require.NoError(t, err)

	want, err := csv.NewReader(strings.NewReader(selectInput)).ReadAll()
	require.NoError(t, err)
	got, err := csv.NewReader(fs.outputs["out.csv"]).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSelectHeaderOnlyForEmptyInput(t *testing.T) {
	mock, fs := newMemService(t, "id,name\n")
	s := newTestSelector(mock)

	_, err := s.Do(context.Background(), SelectParam{
		Input:   "in/file0.csv",
		Output:  "out.csv",
		Columns: []ColumnSpec{{Source: "name", Output: "n"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "n\n", fs.outputs["out.csv"].String())
}

func TestSelectMissingColumn(t *testing.T) {
	mock, fs := newMemService(t, selectInput)
	s := newTestSelector(mock)

	_, err := s.Do(context.Background(), SelectParam{
		Input:   "in/file0.csv",
		Output:  "out.csv",
		Columns: []ColumnSpec{{Source: "phone", Output: "phone"}},
	})
	assert.ErrorIs(t, err, ErrInput)
	assert.Empty(t, fs.created)
}

func TestSelectInvalidParam(t *testing.T) {
	s := newTestSelector(&serviceMock{})

	_, err := s.Do(context.Background(), SelectParam{Input: "in.csv", Output: "out.csv"})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestSelectCreateWriterError(t *testing.T) {
	mock, _ := newMemService(t, selectInput)
	mock.mockCreateWriter = func(fn string, compress string) (io.Writer, cleanupFunc, error) {
		return nil, nil, errors.New("read-only file system")
	}
	s := newTestSelector(mock)

	_, err := s.Do(context.Background(), SelectParam{
		Input:   "in/file0.csv",
		Output:  "out.csv",
		Columns: []ColumnSpec{{Source: "id", Output: "id"}},
	})
	assert.ErrorIs(t, err, ErrOutput)
}

func TestSelectFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte(selectInput), 0o644))
	out := filepath.Join(dir, "sub", "out.csv")

	s := NewSelector()
	s.Log.Out = io.Discard
	summary, err := s.Do(context.Background(), SelectParam{
		Input:   in,
		Output:  out,
		Columns: []ColumnSpec{{Source: "email", Output: "email"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, "email\na@x.com\nb@y.com\n", readFile(t, out))
}
