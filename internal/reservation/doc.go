// Package reservation ties agents to a ClusterDeployment through the
// reservation label.
//
// A plan is a diff between the desired set of agent UIDs and the observed
// labels and cluster references of all candidate agents. Applying a plan
// releases agents before reserving new ones; there is no transaction across
// agents, so each agent's outcome is reported separately. An agent reserved
// by another cluster is still eligible: the last selection wins.
package reservation
