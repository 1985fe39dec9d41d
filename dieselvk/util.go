package dieselvk

import (
	"strings"
)

//safeString terminates s for the C side, already terminated strings pass through
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, safeString(s))
	}
	return out
}

func trimString(s string) string {
	return strings.TrimRight(s, "\x00")
}

//sliceUint32 reinterprets SPIR-V bytes as the words vk.ShaderModuleCreateInfo wants
func sliceUint32(data []byte) []uint32 {
	words := make([]uint32, (len(data)+3)/4)
	for i := range words {
		var w uint32
		for b := 0; b < 4 && i*4+b < len(data); b++ {
			w |= uint32(data[i*4+b]) << (8 * b)
		}
		words[i] = w
	}
	return words
}

//checkExisting keeps the required names that are available and counts the rest
func checkExisting(actual, required []string) (existing []string, missing []string) {
	have := make(map[string]struct{}, len(actual))
	for _, a := range actual {
		have[trimString(a)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := have[trimString(r)]; ok {
			existing = append(existing, safeString(r))
		} else {
			missing = append(missing, trimString(r))
		}
	}
	return existing, missing
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
