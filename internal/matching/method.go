package matching

import (
	"fmt"
	"strings"
)

// Method selects the policy that turns a similarity matrix into
// discrete alignment pairs.
type Method string

const (
	// MethodForward aligns every source token to its best target.
	MethodForward Method = "fwd"
	// MethodReverse aligns every target token to its best source.
	MethodReverse Method = "rev"
	// MethodIntersection keeps only mutual best matches.
	MethodIntersection Method = "inter"
	// MethodIterMax grows the intersection by iteratively matching
	// the remaining tokens.
	MethodIterMax Method = "itermax"
	// MethodMaxWeight computes a maximum-weight one-to-one matching.
	MethodMaxWeight Method = "mwmf"
)

// methodAliases maps the single-letter names accepted by the original
// service configuration to their full labels.
var methodAliases = map[string]Method{
	"f": MethodForward,
	"r": MethodReverse,
	"a": MethodIntersection,
	"i": MethodIterMax,
	"m": MethodMaxWeight,
}

// Methods lists the supported methods in stable order.
func Methods() []Method {
	return []Method{MethodForward, MethodReverse, MethodIntersection, MethodIterMax, MethodMaxWeight}
}

// ParseMethod resolves a method label. Both the full labels ("mwmf")
// and the legacy single-letter aliases ("m") are accepted. The label
// is case-insensitive and surrounding whitespace is ignored.
func ParseMethod(s string) (Method, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	if m, ok := methodAliases[label]; ok {
		return m, nil
	}
	for _, m := range Methods() {
		if label == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown matching method %q, supported: %s", s, strings.Join(MethodLabels(), ", "))
}

// MethodLabels returns the full wire labels in stable order.
func MethodLabels() []string {
	methods := Methods()
	labels := make([]string, len(methods))
	for i, m := range methods {
		labels[i] = string(m)
	}
	return labels
}

func (m Method) String() string {
	return string(m)
}

// Description returns a one-line human-readable summary, used by the
// CLI and the methods endpoint.
func (m Method) Description() string {
	switch m {
	case MethodForward:
		return "each source word aligned to its most similar target word"
	case MethodReverse:
		return "each target word aligned to its most similar source word"
	case MethodIntersection:
		return "mutual best matches only (high precision)"
	case MethodIterMax:
		return "intersection grown by iterative matching of leftover words"
	case MethodMaxWeight:
		return "maximum-weight one-to-one matching over the whole matrix"
	default:
		return "unknown method"
	}
}
