package values

import "strings"

// HighAvailabilityMode selects the control plane size of a new cluster.
type HighAvailabilityMode string

const (
	// HighAvailabilityFull runs three control plane agents.
	HighAvailabilityFull HighAvailabilityMode = "Full"
	// HighAvailabilityNone runs a single node cluster.
	HighAvailabilityNone HighAvailabilityMode = "None"
)

// ControlPlaneAgents returns the number of control plane agents for the mode.
func (m HighAvailabilityMode) ControlPlaneAgents() int {
	if m == HighAvailabilityNone {
		return 1
	}
	return 3
}

// Details are the values of the cluster details step. Name, BaseDNSDomain,
// PullSecret and HighAvailabilityMode are creation-only.
type Details struct {
	Name                 string               `yaml:"name" validate:"required,hostname_rfc1123,max=54"`
	BaseDNSDomain        string               `yaml:"baseDnsDomain" validate:"required,fqdn"`
	OpenshiftVersion     string               `yaml:"openshiftVersion" validate:"required"`
	PullSecret           string               `yaml:"pullSecret" validate:"required,json"`
	HighAvailabilityMode HighAvailabilityMode `yaml:"highAvailabilityMode" validate:"omitempty,oneof=Full None"`
	UseRedHatDNSService  bool                 `yaml:"useRedHatDnsService"`
}

// Networking are the values of the networking step.
type Networking struct {
	SSHPublicKey             string `yaml:"sshPublicKey"`
	ClusterNetworkCIDR       string `yaml:"clusterNetworkCidr" validate:"required,cidr"`
	ClusterNetworkHostPrefix int32  `yaml:"clusterNetworkHostPrefix" validate:"required,min=1,max=128"`
	ServiceNetworkCIDR       string `yaml:"serviceNetworkCidr" validate:"required,cidr"`
	// HostSubnet is shown as "<cidr> (<first> - <last>)"; only the CIDR is used.
	HostSubnet        string `yaml:"hostSubnet"`
	VIPDHCPAllocation bool   `yaml:"vipDhcpAllocation"`
	APIVIP            string `yaml:"apiVip" validate:"omitempty,ip"`
	IngressVIP        string `yaml:"ingressVip" validate:"omitempty,ip"`
}

// HostSubnetCIDR returns the CIDR part of HostSubnet.
func (n Networking) HostSubnetCIDR() string {
	fields := strings.Fields(n.HostSubnet)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HostsSelection are the values of the host selection step.
type HostsSelection struct {
	AutoSelectHosts     bool     `yaml:"autoSelectHosts"`
	SelectedHostIDs     []string `yaml:"selectedHostIds" validate:"dive,required"`
	AutoSelectedHostIDs []string `yaml:"autoSelectedHostIds" validate:"dive,required"`
	Locations           []string `yaml:"locations" validate:"dive,required"`
	// AgentLabels are key=value filters.
	AgentLabels         []string `yaml:"agentLabels" validate:"dive,required,contains=="`
	UseMastersAsWorkers bool     `yaml:"useMastersAsWorkers"`
}

// HostIDs returns the agent UIDs the user wants reserved.
func (h HostsSelection) HostIDs() []string {
	if h.AutoSelectHosts {
		return h.AutoSelectedHostIDs
	}
	return h.SelectedHostIDs
}
