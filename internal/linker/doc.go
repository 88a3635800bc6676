// Package linker creates and incrementally patches the linked records of a
// cluster: the pull secret, the ClusterDeployment, the AgentClusterInstall
// and the agents reserved for it.
//
// Records are created in dependency order (secret, then cluster, then
// install) and every later change is expressed as a minimal JSON patch
// computed against the observed record. Nothing is rolled back: a failed
// step leaves the records created so far in place, and re-running the same
// step against the observed state only issues what is still missing.
package linker
