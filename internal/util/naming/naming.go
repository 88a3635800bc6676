package naming

import "fmt"

func PullSecret(cluster string) string {
	return fmt.Sprintf("%s-pull-secret", cluster)
}

func AgentClusterInstall(cluster string) string {
	return cluster
}

// UsedClusterName is the fully qualified name two clusters may not share.
func UsedClusterName(cluster, baseDomain string) string {
	return fmt.Sprintf("%s.%s", cluster, baseDomain)
}

// ConsolePath is the details page of a ClusterDeployment in the console.
func ConsolePath(namespace, cluster string) string {
	ns := "all-namespaces"
	if namespace != "" {
		ns = "ns/" + namespace
	}
	return fmt.Sprintf("/k8s/%s/ClusterDeployment/%s", ns, cluster)
}
