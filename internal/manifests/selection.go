package manifests

import (
	"encoding/json"
	"strconv"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	cimlabels "github.com/jgyselov/dynamic-cim/internal/util/labels"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// HostSelectionAnnotations returns existing merged with the annotations that
// persist the host selection criteria. Existing annotations are not modified;
// selection annotations that no longer apply are dropped.
func HostSelectionAnnotations(existing map[string]string, v values.HostsSelection) map[string]string {
	out := make(map[string]string, len(existing)+3)
	for k, val := range existing {
		out[k] = val
	}
	delete(out, cimlabels.AnnotationSelectorLocations)
	delete(out, cimlabels.AnnotationSelectorLabels)

	if len(v.Locations) > 0 {
		out[cimlabels.AnnotationSelectorLocations] = mustJSON(v.Locations)
	}
	if len(v.AgentLabels) > 0 {
		out[cimlabels.AnnotationSelectorLabels] = mustJSON(v.AgentLabels)
	}
	out[cimlabels.AnnotationAutoSelectHosts] = strconv.FormatBool(v.AutoSelectHosts)
	return out
}

// LocationSelector matches agents in any of the given locations. With no
// locations it matches everything.
func LocationSelector(locations []string) metav1.LabelSelector {
	if len(locations) == 0 {
		return metav1.LabelSelector{}
	}
	return metav1.LabelSelector{
		MatchExpressions: []metav1.LabelSelectorRequirement{{
			Key:      cimlabels.KeyLocation,
			Operator: metav1.LabelSelectorOpIn,
			Values:   locations,
		}},
	}
}

// AgentSelector converts the agent selector of a ClusterDeployment into a
// selector usable for listing. A nil platform selects everything.
func AgentSelector(sel *metav1.LabelSelector) (labels.Selector, error) {
	if sel == nil {
		return labels.Everything(), nil
	}
	return metav1.LabelSelectorAsSelector(sel)
}

// PlatformAgentSelector returns the agent selector of a ClusterDeployment,
// or nil when the platform sets none.
func PlatformAgentSelector(cd *v1beta1.ClusterDeployment) *metav1.LabelSelector {
	if cd.Spec.Platform.AgentBareMetal == nil {
		return nil
	}
	return &cd.Spec.Platform.AgentBareMetal.AgentSelector
}

func mustJSON(v []string) string {
	data, _ := json.Marshal(v)
	return string(data)
}
