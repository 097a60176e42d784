package domain

import (
	"slices"
)

// TopologySnapshot is the node and subnet membership inferred from a log.
// A snapshot is immutable; accessors return copies.
type TopologySnapshot struct {
	nodes   []string
	subnets []string
}

// NewTopologySnapshot builds a snapshot from possibly repeated identities
func NewTopologySnapshot(nodes, subnets []string) *TopologySnapshot {
	return &TopologySnapshot{
		nodes:   normalize(nodes),
		subnets: normalize(subnets),
	}
}

// Nodes returns the sorted node identities
func (s *TopologySnapshot) Nodes() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.nodes)
}

// Subnets returns the sorted subnet identities
func (s *TopologySnapshot) Subnets() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.subnets)
}

func (s *TopologySnapshot) NodeCount() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

func (s *TopologySnapshot) SubnetCount() int {
	if s == nil {
		return 0
	}
	return len(s.subnets)
}

// Empty reports whether the snapshot has neither nodes nor subnets. A nil
// snapshot is empty.
func (s *TopologySnapshot) Empty() bool {
	return s == nil || (len(s.nodes) == 0 && len(s.subnets) == 0)
}

// Equal compares two snapshots by membership
func (s *TopologySnapshot) Equal(other *TopologySnapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return slices.Equal(s.nodes, other.nodes) && slices.Equal(s.subnets, other.subnets)
}

func normalize(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
