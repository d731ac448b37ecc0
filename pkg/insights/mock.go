package insights

import "github.com/valentinpelus/velocite/pkg/types"

// MockClusters returns the canned two-cluster result used in fallback mode.
// It is a fixed demo payload, not an analysis of the input: cluster-1 always
// references the first two items and cluster-2 the third and fourth. Shorter
// inputs truncate the references silently, down to empty (never nil) slices.
func MockClusters(feedback []types.FeedbackItem) []types.InsightCluster {
	return []types.InsightCluster{
		{
			ID:                 "cluster-1",
			Title:              "Dark Mode Inconsistencies",
			Description:        "Users are reporting white flashes when switching pages in dark mode.",
			Severity:           types.SeverityMedium,
			ImpactScore:        45,
			RelatedFeedbackIDs: types.FeedbackIDs(window(feedback, 0, 2)),
			SuggestedAction:    "Audit CSS variables for background colors on route transitions.",
		},
		{
			ID:                 "cluster-2",
			Title:              "API Latency Spikes",
			Description:        "Critical reports of 500 errors and timeouts during peak hours.",
			Severity:           types.SeverityCritical,
			ImpactScore:        92,
			RelatedFeedbackIDs: types.FeedbackIDs(window(feedback, 2, 4)),
			SuggestedAction:    "Scale database read replicas and investigate slow queries in the reporting module.",
		},
	}
}

// window clamps [start, end) to the slice bounds
func window(items []types.FeedbackItem, start, end int) []types.FeedbackItem {
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
