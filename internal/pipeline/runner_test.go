package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yairfalse/polmon/pkg/domain"
	"github.com/yairfalse/polmon/pkg/group"
	"github.com/yairfalse/polmon/pkg/topology"
	"go.uber.org/zap/zaptest"
)

const ciName = "boundary_nodes_pre_master__boundary_nodes_pot-2784039865"

func writeLog(t *testing.T, dir, name string, records ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("[\n")
	for i, r := range records {
		b.WriteString(r)
		if i < len(records)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\n")

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunner_StreamingCount(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, ciName+".log",
		`{"node_id": "n1"}`, `{"node_id": "n2"}`, `{"node_id": "n3"}`)

	r, err := NewRunner(Config{Workers: 2}, zaptest.NewLogger(t))
	require.NoError(t, err)

	summaries, err := r.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.False(t, s.Failed())
	assert.Equal(t, ciName+"--pseudo", s.Name)
	assert.Equal(t, s.Name, s.SafeName)
	assert.Equal(t, "boundary_nodes_pot", s.Pot)
	require.NotNil(t, s.JobID)
	assert.Equal(t, int64(2784039865), *s.JobID)
	assert.Equal(t, "https://gitlab.com/dfinity-lab/public/ic/-/jobs/2784039865", s.JobURL)
	assert.Equal(t, 3, s.Entries)
	assert.Equal(t, 5, s.Lines)
	assert.Equal(t, "not_computed", s.Infra)
	assert.Empty(t, s.Nodes)
}

func TestRunner_InferTopology(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "mainnet.log",
		`{"node_id": "n1", "subnet_id": "s1"}`,
		`{"node_id": "n2", "subnet_id": "s2"}`)

	r, err := NewRunner(Config{
		Workers:       1,
		InferTopology: true,
		Inferrer:      topology.NewFieldInferrer("", ""),
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	summaries, err := r.Run(context.Background(), []string{path})
	require.NoError(t, err)

	s := summaries[0]
	require.NoError(t, s.Err())
	assert.Equal(t, 2, s.Entries)
	assert.Equal(t, "computed", s.Infra)
	assert.Equal(t, []string{"n1", "n2"}, s.Nodes)
	assert.Equal(t, []string{"s1", "s2"}, s.Subnets)
	assert.Nil(t, s.JobID)
}

func TestRunner_FailuresAreIsolated(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "good.log", `{"node_id": "n1"}`)
	bad := writeLog(t, dir, "bad.log", `{"node_id": "n1"}`, `{broken`)
	noNodes := writeLog(t, dir, "nonodes.log", `{"msg": "hello"}`)
	missing := filepath.Join(dir, "missing.log")

	r, err := NewRunner(Config{
		Workers:       3,
		InferTopology: true,
		Inferrer:      topology.NewFieldInferrer("", ""),
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	summaries, err := r.Run(context.Background(), []string{good, bad, noNodes, missing})
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	assert.False(t, summaries[0].Failed())
	assert.Equal(t, good, summaries[0].Path)

	assert.True(t, errors.Is(summaries[1].Err(), domain.ErrDecode))
	assert.NotEmpty(t, summaries[1].Error)
	assert.Equal(t, 1, summaries[1].Entries)

	assert.True(t, errors.Is(summaries[2].Err(), domain.ErrInferenceFailed))
	assert.Equal(t, "failed", summaries[2].Infra)
	assert.Equal(t, 1, summaries[2].Entries)

	assert.True(t, summaries[3].Failed())
	assert.Empty(t, summaries[3].Name)
}

func TestRunner_GenerationsForDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a/run.log", `{"x": 1}`)
	b := writeLog(t, dir, "b/run.log.gz.txt", `{"x": 1}`)
	c := writeLog(t, dir, "c/run.json", `{"x": 1}`)
	other := writeLog(t, dir, "other.log", `{"x": 1}`)

	r, err := NewRunner(Config{Workers: 4}, zaptest.NewLogger(t))
	require.NoError(t, err)

	summaries, err := r.Run(context.Background(), []string{a, other, b, c})
	require.NoError(t, err)

	assert.Equal(t, "run--pseudo", summaries[0].SafeName)
	assert.Equal(t, "other--pseudo", summaries[1].SafeName)
	assert.Equal(t, "run--pseudo--1", summaries[2].SafeName)
	assert.Equal(t, "run--pseudo--2", summaries[3].SafeName)
}

func TestRunner_GroupOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, ciName+".log", `{"x": 1}`)

	r, err := NewRunner(Config{
		Workers:      1,
		GroupOptions: []group.Option{group.WithJobURLTemplate("https://ci.example/{job_id}")},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	summaries, err := r.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "https://ci.example/2784039865", summaries[0].JobURL)
}

func TestRunner_ManyGroupsInParallel(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 16; i++ {
		records := make([]string, i+1)
		for j := range records {
			records[j] = fmt.Sprintf(`{"node_id": "n%d"}`, j)
		}
		paths = append(paths, writeLog(t, dir, fmt.Sprintf("pot%02d-%d.log", i, 1000+i), records...))
	}

	r, err := NewRunner(Config{
		Workers:       4,
		InferTopology: true,
		Inferrer:      topology.NewFieldInferrer("", ""),
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	summaries, err := r.Run(context.Background(), paths)
	require.NoError(t, err)
	for i, s := range summaries {
		require.NoError(t, s.Err())
		assert.Equal(t, i+1, s.Entries)
		assert.Len(t, s.Nodes, i+1)
		require.NotNil(t, s.JobID)
		assert.Equal(t, int64(1000+i), *s.JobID)
	}
}

func TestRunner_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "x.log", `{"x": 1}`)

	r, err := NewRunner(Config{Workers: 1}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_DecodeErrorKeepsEntryCount(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "partial.log", `{"node_id": "n1"}`, `{"node_id": "n2"}`, `{broken`)

	for _, infer := range []bool{false, true} {
		t.Run(fmt.Sprintf("infer=%t", infer), func(t *testing.T) {
			r, err := NewRunner(Config{
				Workers:       1,
				InferTopology: infer,
				Inferrer:      topology.NewFieldInferrer("", ""),
			}, zaptest.NewLogger(t))
			require.NoError(t, err)

			summaries, err := r.Run(context.Background(), []string{path})
			require.NoError(t, err)

			s := summaries[0]
			assert.True(t, errors.Is(s.Err(), domain.ErrDecode))
			assert.Equal(t, 2, s.Entries)
			assert.Equal(t, 4, s.Lines)
			assert.Equal(t, "not_computed", s.Infra)
		})
	}
}

func TestRunner_CancelStopsMaterialize(t *testing.T) {
	dir := t.TempDir()
	records := make([]string, 3*cancelCheckInterval)
	for i := range records {
		records[i] = fmt.Sprintf(`{"node_id": "n%d"}`, i)
	}
	path := writeLog(t, dir, "big.log", records...)

	inf := &countingInferrer{Inferrer: topology.NewFieldInferrer("", "")}
	r, err := NewRunner(Config{
		Workers:       1,
		InferTopology: true,
		Inferrer:      inf,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := r.process(ctx, path, []group.Option{group.WithInferrer(inf)})
	assert.ErrorIs(t, s.Err(), context.Canceled)
	assert.Equal(t, cancelCheckInterval, s.Entries)
	assert.Equal(t, "not_computed", s.Infra)
	assert.Empty(t, s.Nodes)
	assert.Equal(t, 0, inf.calls)
}

// countingInferrer counts how often topology inference runs
type countingInferrer struct {
	domain.Inferrer
	calls int
}

func (c *countingInferrer) Infer(entries []*domain.LogEntry) (*domain.TopologySnapshot, error) {
	c.calls++
	return c.Inferrer.Infer(entries)
}

func TestNewRunner_Validation(t *testing.T) {
	_, err := NewRunner(Config{Workers: 0}, nil)
	assert.Error(t, err)

	_, err = NewRunner(Config{Workers: 1, InferTopology: true}, nil)
	assert.True(t, errors.Is(err, domain.ErrNoInferrer))
}

func TestAssignGenerations(t *testing.T) {
	gens := AssignGenerations([]string{"a/x.log", "b/y.log", "c/x.log.gz", "x", "y.txt"})

	assert.Equal(t, map[int]int{2: 1, 3: 2, 4: 1}, gens)
}
