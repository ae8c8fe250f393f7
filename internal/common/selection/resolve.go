package selection

import (
	"fmt"
	"sort"
	"time"

	"promptstudio-workers/internal/models"
)

// LabelLayout renders creation timestamps so that label order is chronological.
const LabelLayout = "2006-01-02, 15:04:05"

// TimestampFormatter turns an API created_at value into display text.
type TimestampFormatter func(createdAt string) string

// FormatTimestamp is the default TimestampFormatter. It renders RFC 3339
// timestamps in UTC using LabelLayout and returns anything else unchanged.
func FormatTimestamp(createdAt string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, createdAt); err == nil {
			return t.UTC().Format(LabelLayout)
		}
	}
	return createdAt
}

// ResolveDeployments lists the deployments carried by an encoded recipe value,
// most recent first. An empty or malformed value resolves to an empty list.
func ResolveDeployments(value string, format TimestampFormatter) []models.Option {
	return ResolveGroup(Decode(value), format)
}

// ResolveGroup is ResolveDeployments for an already decoded group.
func ResolveGroup(g Group, format TimestampFormatter) []models.Option {
	if format == nil {
		format = FormatTimestamp
	}

	options := make([]models.Option, 0, g.Len())
	for _, d := range g.Deployments {
		options = append(options, models.Option{
			Name:  fmt.Sprintf("%s - %s", format(d.CreatedAt), d.ID),
			Value: d.ID,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Name > options[j].Name
	})
	return options
}
