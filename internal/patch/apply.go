package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyTo applies the sequence to a JSON document and returns the result.
// Paths that do not exist make add and replace behave the way the API server
// does: replace on a missing path fails.
func (o Ops) ApplyTo(doc []byte) ([]byte, error) {
	raw, err := o.Marshal()
	if err != nil {
		return nil, err
	}
	decoded, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode patch: %w", err)
	}
	out, err := decoded.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to apply patch: %w", err)
	}
	return out, nil
}
