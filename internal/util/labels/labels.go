package labels

// Label keys set on Agent records.
const (
	// KeyReservedBy marks an agent as reserved by a ClusterDeployment. The
	// value is derived from the cluster's namespace and name.
	KeyReservedBy = "agent-install.openshift.io/reserved-by"

	// KeyLocation carries the physical location of an agent.
	KeyLocation = "agent-install.openshift.io/location"
)

// Annotation keys set on ClusterDeployment records to persist the host
// selection criteria between wizard runs.
const (
	AnnotationSelectorLocations = "agent-install.openshift.io/selector-locations"
	AnnotationSelectorLabels    = "agent-install.openshift.io/selector-labels"
	AnnotationAutoSelectHosts   = "agent-install.openshift.io/auto-select-hosts"
)

// LabelBuilder produces a modified copy of a label map.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder starts from a copy of existing, which may be nil.
func NewLabelBuilder(existing map[string]string) *LabelBuilder {
	labels := make(map[string]string, len(existing)+1)
	for k, v := range existing {
		labels[k] = v
	}
	return &LabelBuilder{labels: labels}
}

// WithReservation sets the reservation label to value.
func (lb *LabelBuilder) WithReservation(value string) *LabelBuilder {
	lb.labels[KeyReservedBy] = value
	return lb
}

// WithoutReservation drops the reservation label.
func (lb *LabelBuilder) WithoutReservation() *LabelBuilder {
	delete(lb.labels, KeyReservedBy)
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// ReservedBy returns the reservation label value and whether it is set.
func ReservedBy(labels map[string]string) (string, bool) {
	v, ok := labels[KeyReservedBy]
	return v, ok
}

// SelectorForReservation returns a label selector string matching all agents
// reserved with value.
func SelectorForReservation(value string) string {
	return KeyReservedBy + "=" + value
}
