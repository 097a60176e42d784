package group

import (
	"strconv"
	"strings"
)

const (
	// PseudoSuffix marks a group replayed from a local log file
	PseudoSuffix = "--pseudo"

	// DefaultJobURLTemplate links a job reference to its CI job page
	DefaultJobURLTemplate = "https://gitlab.com/dfinity-lab/public/ic/-/jobs/{job_id}"

	jobIDPlaceholder = "{job_id}"
	potSeparator     = "__"
	generationSep    = "--"
)

// PotName returns the short system test name encoded in a group name.
//
//	"boundary_nodes_pre_master__boundary_nodes_pot-2784039865" -> "boundary_nodes_pot"
func PotName(name string) string {
	segments := strings.Split(name, potSeparator)
	last := segments[len(segments)-1]
	pot, _, _ := strings.Cut(last, "-")
	return pot
}

// IsLocalName reports whether a group name comes from a locally run test.
// Local runs embed user and host segments, adding extra dashes.
func IsLocalName(name string) bool {
	return strings.Count(name, "-") > 1
}

// JobReference extracts the CI job id from a group name. Names of local runs
// and names without a numeric suffix have no job reference; that is a normal
// outcome, not an error.
//
//	"..._pot-2784039865"                                   -> 2784039865
//	"..._pot-2784039865--pseudo"                           -> 2784039865
//	"..._pot-username-zh1-spm99_zh7_dfinity_network-2784039865" -> absent
func JobReference(name string) (int64, bool) {
	name = strings.TrimSuffix(name, PseudoSuffix)
	if IsLocalName(name) {
		return 0, false
	}

	suffix := name[strings.LastIndex(name, "-")+1:]
	if !isDigits(suffix) {
		return 0, false
	}
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// JobURL substitutes a job id into a URL template
func JobURL(template string, id int64) string {
	return strings.ReplaceAll(template, jobIDPlaceholder, strconv.FormatInt(id, 10))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
