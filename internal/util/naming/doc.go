// Package naming provides consistent names for the records created by the
// deployment wizard and the console paths pointing at them.
//
// The pull secret is named {cluster}-pull-secret; the AgentClusterInstall
// shares the ClusterDeployment's name.
package naming
