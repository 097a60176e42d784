package topology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yairfalse/polmon/pkg/domain"
)

func entries(records ...map[string]interface{}) []*domain.LogEntry {
	out := make([]*domain.LogEntry, len(records))
	for i, r := range records {
		out[i] = domain.NewLogEntry(i+1, r)
	}
	return out
}

func TestFieldInferrer_CollectsNodesAndSubnets(t *testing.T) {
	inf := NewFieldInferrer("", "")

	snap, err := inf.Infer(entries(
		map[string]interface{}{"node_id": "n2", "subnet_id": "s1"},
		map[string]interface{}{"node_id": "n1", "subnet_id": "s1"},
		map[string]interface{}{"node_id": "n2", "subnet_id": "s2"},
		map[string]interface{}{"message": "no identity"},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2"}, snap.Nodes())
	assert.Equal(t, []string{"s1", "s2"}, snap.Subnets())
}

func TestFieldInferrer_NestedPathsAndNumericIDs(t *testing.T) {
	inf := NewFieldInferrer("host.id", "ic.subnet")

	snap, err := inf.Infer(entries(
		map[string]interface{}{
			"host": map[string]interface{}{"id": int64(7)},
			"ic":   map[string]interface{}{"subnet": "tdb26"},
		},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, snap.Nodes())
	assert.Equal(t, []string{"tdb26"}, snap.Subnets())
}

func TestFieldInferrer_NodesWithoutSubnets(t *testing.T) {
	snap, err := NewFieldInferrer("", "").Infer(entries(
		map[string]interface{}{"node_id": "n1"},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, snap.Nodes())
	assert.Empty(t, snap.Subnets())
}

func TestFieldInferrer_FailsWithoutNodes(t *testing.T) {
	inf := NewFieldInferrer("", "")

	for name, in := range map[string][]*domain.LogEntry{
		"no entries":     nil,
		"no node field":  entries(map[string]interface{}{"subnet_id": "s1"}),
		"empty node id":  entries(map[string]interface{}{"node_id": ""}),
		"object node id": entries(map[string]interface{}{"node_id": map[string]interface{}{}}),
	} {
		t.Run(name, func(t *testing.T) {
			snap, err := inf.Infer(in)
			assert.Nil(t, snap)
			assert.True(t, errors.Is(err, domain.ErrInferenceFailed))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(NewFieldInferrer("", "")))
	assert.Error(t, r.Register(NewFieldInferrer("other", "")), "duplicate name")
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(namedInferrer("")))
	require.NoError(t, r.Register(namedInferrer("static")))

	got, ok := r.Get(FieldInferrerName)
	require.True(t, ok)
	assert.Equal(t, FieldInferrerName, got.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"fields", "static"}, r.List())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry("host", "net")

	got, ok := r.Get(FieldInferrerName)
	require.True(t, ok)
	fi, ok := got.(*FieldInferrer)
	require.True(t, ok)
	assert.Equal(t, "host", fi.NodeField)
	assert.Equal(t, "net", fi.SubnetField)
}

type namedInferrer string

func (n namedInferrer) Name() string { return string(n) }

func (n namedInferrer) Infer([]*domain.LogEntry) (*domain.TopologySnapshot, error) {
	return domain.NewTopologySnapshot(nil, nil), nil
}
