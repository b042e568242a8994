package events

import "time"

// Filter narrows the table to rows within [start, end] (inclusive on both
// ends) whose campaign/channel/url belong to the given sets. A nil or empty
// set leaves that dimension unconstrained. The input table is never mutated;
// an empty result is valid output.
func (t Table) Filter(start, end time.Time, campaigns, channels, urls []string) Table {
	campaignSet := toSet(campaigns)
	channelSet := toSet(channels)
	urlSet := toSet(urls)

	filtered := make(Table, 0, len(t))
	for _, row := range t {
		if row.Date.Before(start) || row.Date.After(end) {
			continue
		}
		if campaignSet != nil && !campaignSet[row.Campaign] {
			continue
		}
		if channelSet != nil && !channelSet[row.Channel] {
			continue
		}
		if urlSet != nil && !urlSet[row.URL] {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// FilterByURLs narrows the table to rows whose landing page belongs to the
// given set, ignoring dates. Used for cohort selection over an already
// date-filtered table.
func (t Table) FilterByURLs(urls []string) Table {
	urlSet := toSet(urls)
	if urlSet == nil {
		return t
	}
	filtered := make(Table, 0, len(t))
	for _, row := range t {
		if urlSet[row.URL] {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
