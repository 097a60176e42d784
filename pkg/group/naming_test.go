package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const ciName = "boundary_nodes_pre_master__boundary_nodes_pot-2784039865"

func TestPotName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: ciName, want: "boundary_nodes_pot"},
		{name: ciName + PseudoSuffix, want: "boundary_nodes_pot"},
		{name: "boundary_nodes_pre_master__boundary_nodes_pot-username-zh1-spm99_zh7_dfinity_network-2784039865", want: "boundary_nodes_pot"},
		{name: "mainnet", want: "mainnet"},
		{name: "a__b__c-1", want: "c"},
		{name: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PotName(tt.name))
		})
	}
}

func TestJobReference(t *testing.T) {
	tests := []struct {
		name   string
		want   int64
		wantOK bool
	}{
		{name: ciName, want: 2784039865, wantOK: true},
		{name: ciName + PseudoSuffix, want: 2784039865, wantOK: true},
		{name: "boundary_nodes_pre_master__boundary_nodes_pot-username-zh1-spm99_zh7_dfinity_network-2784039865", wantOK: false},
		{name: "boundary_nodes_pot-abc", wantOK: false},
		{name: "boundary_nodes_pot-", wantOK: false},
		{name: "mainnet-logs--pseudo", wantOK: false},
		{name: "12345", want: 12345, wantOK: true},
		{name: "pot-99999999999999999999", wantOK: false},
		{name: "pot-１２３", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := JobReference(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsLocalName(t *testing.T) {
	assert.False(t, IsLocalName(ciName))
	assert.True(t, IsLocalName("pot-user-host-1"))
	assert.False(t, IsLocalName("pot"))
}

func TestJobURL(t *testing.T) {
	assert.Equal(t,
		"https://gitlab.com/dfinity-lab/public/ic/-/jobs/42",
		JobURL(DefaultJobURLTemplate, 42))
	assert.Equal(t, "ci/42/42", JobURL("ci/{job_id}/{job_id}", 42))
}
