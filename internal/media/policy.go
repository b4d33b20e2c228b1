package media

import (
	"github.com/tgfetch/TGFetch/internal/log"
)

// AllFormats is the sentinel accepting every file format of a kind.
const AllFormats = "all"

// FormatPolicy maps a filterable Kind to its accepted format tokens or the
// "all" sentinel as first element. Only audio, document and video are ever
// format-filtered.
type FormatPolicy map[Kind][]string

var filterableKinds = map[Kind]struct{}{
	KindAudio:    {},
	KindDocument: {},
	KindVideo:    {},
}

// Allowed reports whether a file of the given kind and detected format
// passes the policy. Non-filterable kinds always pass. A filterable kind
// missing from the policy, or carrying an empty list, rejects everything.
// An unknown format never matches an explicit list.
func (p FormatPolicy) Allowed(kind Kind, format string) bool {
	if _, ok := filterableKinds[kind]; !ok {
		return true
	}
	allowed, ok := p[kind]
	if !ok {
		return false
	}
	if len(allowed) == 0 {
		log.GetLogger(log.MediaModule).Warnf("invalid file_formats configuration for %s", kind)
		return false
	}
	if allowed[0] == AllFormats {
		return true
	}
	if format == "" {
		return false
	}
	for _, f := range allowed {
		if f == format {
			return true
		}
	}
	return false
}

// ParsePolicy builds a FormatPolicy from the raw config mapping, keeping
// only valid kind keys.
func ParsePolicy(raw map[string][]string) FormatPolicy {
	out := FormatPolicy{}
	for k, formats := range raw {
		kind := Kind(k)
		if _, ok := filterableKinds[kind]; !ok {
			continue
		}
		out[kind] = formats
	}
	return out
}
