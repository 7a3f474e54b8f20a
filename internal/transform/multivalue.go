package transform

import "strings"

// Some extract fields pack several one- or two-character codes into a single
// cell with no delimiter ("CHIJ" = codes C, H, I, J). A CodeSet is the
// resolved set of known codes contained in such a value. Resolution happens
// once, against the field's known code list; membership tests afterwards
// never re-scan the raw text.
type CodeSet map[string]struct{}

// ParseCodeSet builds the set of known codes present in raw. A code counts
// as present when it appears as a substring of the raw value, matching how
// the source agency packs the field. Contradictory combinations (e.g.
// "alcohol involved" together with "no substance involved") are preserved
// as-is; they are a documented quality issue in the source data.
func ParseCodeSet(raw string, known []string) CodeSet {
	set := make(CodeSet)
	value := strings.TrimSpace(raw)
	if value == "" {
		return set
	}
	for _, code := range known {
		if code == "" {
			continue
		}
		if strings.Contains(value, code) {
			set[code] = struct{}{}
		}
	}
	return set
}

func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

func (s CodeSet) Empty() bool {
	return len(s) == 0
}
