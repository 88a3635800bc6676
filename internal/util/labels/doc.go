// Package labels defines the label and annotation keys shared by agents and
// cluster deployments.
//
// Agents are tied to a cluster through the reservation label; the builder
// produces modified copies of an agent's label map so observed state is
// never mutated in place.
package labels
