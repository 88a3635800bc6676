package testing

import (
	"maps"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/util/labels"
)

// AgentBuilder provides a fluent interface for constructing test agents.
// Each method returns a new builder (immutable) for chaining.
type AgentBuilder struct {
	agent v1beta1.Agent
}

// NewAgentBuilder creates an unreserved agent whose UID is "uid-<name>" and
// whose hostname is its name.
func NewAgentBuilder(namespace, name string) *AgentBuilder {
	return &AgentBuilder{
		agent: v1beta1.Agent{
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: namespace,
				UID:       types.UID("uid-" + name),
			},
			Spec: v1beta1.AgentSpec{Hostname: name},
		},
	}
}

// WithLabels merges labels into the agent labels.
func (b *AgentBuilder) WithLabels(extra map[string]string) *AgentBuilder {
	newBuilder := b.clone()
	newBuilder.agent.Labels = labels.NewLabelBuilder(b.agent.Labels).Merge(extra).Build()
	return newBuilder
}

// WithLocation sets the location label.
func (b *AgentBuilder) WithLocation(location string) *AgentBuilder {
	return b.WithLabels(map[string]string{labels.KeyLocation: location})
}

// WithRole sets the agent role.
func (b *AgentBuilder) WithRole(role string) *AgentBuilder {
	newBuilder := b.clone()
	newBuilder.agent.Spec.Role = role
	return newBuilder
}

// ReservedFor marks the agent as fully reserved: the reservation label is
// set to value and the agent points at the given ClusterDeployment.
func (b *AgentBuilder) ReservedFor(value string, cluster types.NamespacedName) *AgentBuilder {
	newBuilder := b.WithLabels(map[string]string{labels.KeyReservedBy: value})
	newBuilder.agent.Spec.ClusterDeploymentName = &v1beta1.ClusterReference{
		Name:      cluster.Name,
		Namespace: cluster.Namespace,
	}
	return newBuilder
}

// Build returns a copy of the agent.
func (b *AgentBuilder) Build() *v1beta1.Agent {
	return &b.clone().agent
}

// clone creates a deep copy of the builder for immutability.
func (b *AgentBuilder) clone() *AgentBuilder {
	newAgent := b.agent
	newAgent.Labels = maps.Clone(b.agent.Labels)
	if ref := b.agent.Spec.ClusterDeploymentName; ref != nil {
		refCopy := *ref
		newAgent.Spec.ClusterDeploymentName = &refCopy
	}
	return &AgentBuilder{agent: newAgent}
}
