// Package agg has normalization and aggregation logic for contributor activity.
package agg

import (
	"strings"
	"time"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// kindAliases maps alternative spellings seen in fixtures and sources to event types.
var kindAliases = map[string]schema.EventType{
	"issue":                schema.IssueOpenedEvent,
	"pull_request":         schema.PROpenedEvent,
	"pr":                   schema.PROpenedEvent,
	"pull_request_opened":  schema.PROpenedEvent,
	"pull_request_merged":  schema.PRMergedEvent,
	"pull_request_closed":  schema.PRClosedEvent,
	"pr_review":            schema.ReviewEvent,
	"issue_comment":        schema.CommentEvent,
	"review_comment":       schema.CommentEvent,
	"pull_request_comment": schema.CommentEvent,
}

// ParseEventType resolves a raw record kind to an event type.
func ParseEventType(kind string) (schema.EventType, bool) {
	k := strings.ToLower(strings.TrimSpace(kind))
	if _, ok := schema.ValidEventTypes[schema.EventType(k)]; ok {
		return schema.EventType(k), true
	}
	et, ok := kindAliases[k]
	return et, ok
}

// ResolveIdentity returns the contributor identity of a raw record: the login when
// present, else the normalized display name. Empty means unresolvable.
func ResolveIdentity(login, name string) string {
	if l := strings.ToLower(strings.TrimSpace(login)); l != "" {
		return l
	}
	return schema.NormalizeDisplayName(name)
}

// Normalize converts raw records into events for repoID inside window.
// Records that cannot be normalized are counted, never fatal.
// A nil bot filter keeps automation accounts.
func Normalize(records []schema.RawRecord, repoID string, window schema.Window, bots *BotFilter) schema.NormalizeResult {
	result := schema.NormalizeResult{
		Events: make([]schema.ContributorEvent, 0, len(records)),
		Total:  len(records),
	}

	for _, rec := range records {
		if rec.RepositoryID != "" && !strings.EqualFold(strings.TrimSpace(rec.RepositoryID), repoID) {
			result.OutOfRepository++
			continue
		}

		ev, ok := normalizeRecord(rec, repoID)
		if !ok {
			result.Skipped++
			continue
		}

		if !window.Contains(ev.Timestamp) {
			result.OutOfWindow++
			continue
		}

		if bots.IsBot(rec.Login, rec.Name, rec.Email) {
			result.BotsFiltered++
			continue
		}

		result.Events = append(result.Events, ev)
	}

	return result
}

// normalizeRecord builds an event from a single record, reporting false when the
// kind, timestamp or identity cannot be resolved.
func normalizeRecord(rec schema.RawRecord, repoID string) (schema.ContributorEvent, bool) {
	eventType, ok := ParseEventType(rec.Kind)
	if !ok {
		return schema.ContributorEvent{}, false
	}

	ts, err := contract.ParseTimestamp(rec.Timestamp)
	if err != nil {
		return schema.ContributorEvent{}, false
	}

	id := ResolveIdentity(rec.Login, rec.Name)
	if id == "" {
		return schema.ContributorEvent{}, false
	}

	displayName := strings.Join(strings.Fields(rec.Name), " ")
	if displayName == "" {
		displayName = strings.TrimSpace(rec.Login)
	}

	ev := schema.ContributorEvent{
		ContributorID: id,
		DisplayName:   displayName,
		Email:         strings.TrimSpace(rec.Email),
		Type:          eventType,
		Timestamp:     ts,
		RepositoryID:  repoID,
		Text:          rec.Text,
	}
	if rec.LatencyHours != nil && *rec.LatencyHours >= 0 {
		latency := time.Duration(*rec.LatencyHours * float64(time.Hour))
		ev.ResponseLatency = &latency
	}
	return ev, true
}
