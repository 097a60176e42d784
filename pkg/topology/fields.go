// Package topology provides topology inferrers for log groups.
package topology

import (
	"fmt"

	"github.com/yairfalse/polmon/pkg/domain"
)

const (
	DefaultNodeField   = "node_id"
	DefaultSubnetField = "subnet_id"

	// FieldInferrerName is the registry name of FieldInferrer
	FieldInferrerName = "fields"
)

// FieldInferrer collects node and subnet identities from fixed record
// fields. Entries without a node identity are ignored; the inference fails
// when no entry has one.
type FieldInferrer struct {
	NodeField   string
	SubnetField string
}

// NewFieldInferrer returns an inferrer reading the given dotted paths.
// Empty paths fall back to the defaults.
func NewFieldInferrer(nodeField, subnetField string) *FieldInferrer {
	if nodeField == "" {
		nodeField = DefaultNodeField
	}
	if subnetField == "" {
		subnetField = DefaultSubnetField
	}
	return &FieldInferrer{NodeField: nodeField, SubnetField: subnetField}
}

// Name implements domain.Inferrer
func (f *FieldInferrer) Name() string { return FieldInferrerName }

// Infer implements domain.Inferrer
func (f *FieldInferrer) Infer(entries []*domain.LogEntry) (*domain.TopologySnapshot, error) {
	var nodes, subnets []string
	for _, entry := range entries {
		node, ok := entry.String(f.NodeField)
		if !ok || node == "" {
			continue
		}
		nodes = append(nodes, node)

		if subnet, ok := entry.String(f.SubnetField); ok {
			subnets = append(subnets, subnet)
		}
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: none of %d entries carries %q",
			domain.ErrInferenceFailed, len(entries), f.NodeField)
	}
	return domain.NewTopologySnapshot(nodes, subnets), nil
}

// DefaultRegistry returns a registry holding the built-in inferrers
func DefaultRegistry(nodeField, subnetField string) *Registry {
	r := NewRegistry()
	_ = r.Register(NewFieldInferrer(nodeField, subnetField))
	return r
}
