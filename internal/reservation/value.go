package reservation

import (
	"crypto/sha256"
	"encoding/hex"

	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/validation"
)

// hashedValueLength keeps "h-" plus the digest prefix within the label value
// limit.
const hashedValueLength = 56

// ReservedValue derives the reservation label value of a cluster.
//
// Namespaces are DNS labels and never contain a dot, so "<namespace>.<name>"
// identifies the pair unambiguously. When that form is not a valid label
// value (too long), a digest of the pair prefixed with "h-" is used instead;
// it contains no dot and so never equals a short form.
func ReservedValue(cluster types.NamespacedName) string {
	v := cluster.Namespace + "." + cluster.Name
	if len(validation.IsValidLabelValue(v)) == 0 {
		return v
	}
	sum := sha256.Sum256([]byte(cluster.Namespace + "/" + cluster.Name))
	return "h-" + hex.EncodeToString(sum[:])[:hashedValueLength]
}
