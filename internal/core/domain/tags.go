package domain

import "sort"

// MaxCompiledTags caps how many tags a compiled note carries
const MaxCompiledTags = 5

// AggregateTags combines the tag lists of several source notes into the tag
// set for a compiled note. Tags are ranked by frequency (descending) with an
// alphabetical tiebreak. Tags appearing in more than one source are preferred;
// remaining slots are padded with the highest-ranked single-occurrence tags,
// up to MaxCompiledTags total.
func AggregateTags(tagLists [][]string) []string {
	counts := make(map[string]int)
	for _, tags := range tagLists {
		for _, tag := range tags {
			if tag == "" {
				continue
			}
			counts[tag]++
		}
	}
	if len(counts) == 0 {
		return []string{}
	}

	ranked := make([]string, 0, len(counts))
	for tag := range counts {
		ranked = append(ranked, tag)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	result := make([]string, 0, MaxCompiledTags)
	for _, tag := range ranked {
		if counts[tag] > 1 {
			result = append(result, tag)
			if len(result) == MaxCompiledTags {
				return result
			}
		}
	}
	for _, tag := range ranked {
		if counts[tag] == 1 {
			result = append(result, tag)
			if len(result) == MaxCompiledTags {
				return result
			}
		}
	}
	return result
}
