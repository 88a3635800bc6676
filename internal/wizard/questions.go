package wizard

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// runDetailsGroup prompts for the cluster details. Creation-only fields are
// skipped once the cluster exists.
func runDetailsGroup(ctx context.Context, catalog Catalog, linked bool, v *values.Details) error {
	if v.OpenshiftVersion == "" && len(catalog.ImageSets) > 0 {
		v.OpenshiftVersion = catalog.ImageSets[0]
	}
	if v.HighAvailabilityMode == "" {
		v.HighAvailabilityMode = values.HighAvailabilityFull
	}

	version := huh.NewSelect[string]().
		Title("OpenShift Version").
		Description("Release image the cluster is installed with").
		Options(VersionsToOptions(catalog.ImageSets)...).
		Value(&v.OpenshiftVersion)

	if linked {
		return huh.NewForm(huh.NewGroup(version).Title("Cluster Details")).RunWithContext(ctx)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base Domain").
				Description("All DNS records of the cluster are subdomains of this domain").
				Placeholder("example.com").
				Value(&v.BaseDNSDomain).
				Validate(validateBaseDomain),
			huh.NewInput().
				Title("Cluster Name").
				Description("Lowercase alphanumeric characters or hyphens").
				Placeholder("my-cluster").
				Value(&v.Name).
				Validate(unusedClusterName(catalog.UsedClusterNames, &v.BaseDNSDomain)),
			version,
			huh.NewText().
				Title("Pull Secret").
				Description("Docker config JSON used to pull the release images").
				Value(&v.PullSecret).
				Validate(validatePullSecret),
			huh.NewSelect[values.HighAvailabilityMode]().
				Title("High Availability").
				Options(HighAvailabilityOptions...).
				Value(&v.HighAvailabilityMode),
			huh.NewConfirm().
				Title("Use Red Hat DNS Service").
				Value(&v.UseRedHatDNSService),
		).Title("Cluster Details"),
	).RunWithContext(ctx)
}

// runNetworkingGroup prompts for the networking settings.
func runNetworkingGroup(ctx context.Context, v *values.Networking) error {
	hostPrefix := strconv.Itoa(int(v.ClusterNetworkHostPrefix))

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Network CIDR").
				Description("IP range for pods").
				Value(&v.ClusterNetworkCIDR).
				Validate(validateCIDR),
			huh.NewInput().
				Title("Cluster Network Host Prefix").
				Description("Subnet prefix length assigned to each node").
				Value(&hostPrefix).
				Validate(validateHostPrefix),
			huh.NewInput().
				Title("Service Network CIDR").
				Description("IP range for services").
				Value(&v.ServiceNetworkCIDR).
				Validate(validateCIDR),
		).Title("Networks"),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allocate VIPs via DHCP").
				Value(&v.VIPDHCPAllocation),
			huh.NewInput().
				Title("Host Subnet").
				Description("Machine network CIDR, used when VIPs are allocated via DHCP").
				Value(&v.HostSubnet),
			huh.NewInput().
				Title("API VIP").
				Value(&v.APIVIP).
				Validate(validateOptionalIP),
			huh.NewInput().
				Title("Ingress VIP").
				Value(&v.IngressVIP).
				Validate(validateOptionalIP),
		).Title("Virtual IPs"),
		huh.NewGroup(
			huh.NewText().
				Title("SSH Public Key (Optional)").
				Description("Installed on every host for debugging").
				Value(&v.SSHPublicKey),
		).Title("SSH Access"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	v.ClusterNetworkHostPrefix, err = parseHostPrefix(hostPrefix)
	return err
}

// runHostsGroup prompts for the host selection criteria and hosts.
func runHostsGroup(ctx context.Context, agents []v1beta1.Agent, mode values.HighAvailabilityMode, v *values.HostsSelection) error {
	locations := strings.Join(v.Locations, ", ")
	agentLabels := strings.Join(v.AgentLabels, ", ")

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Locations (Optional)").
				Description("Comma-separated host locations").
				Value(&locations),
			huh.NewInput().
				Title("Agent Labels (Optional)").
				Description("Comma-separated key=value filters").
				Value(&agentLabels).
				Validate(validateLabels),
			huh.NewConfirm().
				Title("Run Workloads on Control Plane Hosts").
				Value(&v.UseMastersAsWorkers),
			huh.NewConfirm().
				Title("Auto-select Hosts").
				Value(&v.AutoSelectHosts),
		).Title("Hosts Selection"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	v.Locations = parseList(locations)
	v.AgentLabels = parseList(agentLabels)

	if v.AutoSelectHosts {
		v.AutoSelectedHostIDs = AutoSelect(agents, *v, HostCount(mode, v.UseMastersAsWorkers))
		return nil
	}

	candidates := Matching(agents, *v)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Hosts").
				Description("Hosts reserved for the cluster").
				Options(AgentsToOptions(candidates, v.SelectedHostIDs)...).
				Value(&v.SelectedHostIDs),
		).Title("Hosts"),
	).RunWithContext(ctx)
}

func confirmRetryForm(ctx context.Context, message string) (bool, error) {
	retry := true
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Saving failed").Description(message),
			huh.NewConfirm().
				Title("Edit and try again?").
				Value(&retry),
		),
	).RunWithContext(ctx)
	return retry, err
}
