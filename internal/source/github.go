package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
	"golang.org/x/time/rate"
)

const (
	// githubPerPage is the page size of every list call; only the first page is read.
	githubPerPage = 100

	// maxReviewedPulls bounds the per-PR review calls made for one repository.
	maxReviewedPulls = 20
)

// GitHubSource fetches commits, issues, pull requests, comments and reviews
// from the GitHub REST API without authentication. Only the first page of
// each listing is read.
type GitHubSource struct {
	client  *github.Client
	limiter *rate.Limiter
}

var _ contract.DataSource = &GitHubSource{} // Compile-time check

// NewGitHubSource creates a GitHub source for the API at baseURL, issuing at most
// requestsPerSecond calls per second.
func NewGitHubSource(baseURL string, requestsPerSecond float64) (*GitHubSource, error) {
	client := github.NewClient(nil)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = contract.DefaultRateLimit
	}
	return &GitHubSource{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// FetchEvents implements the DataSource interface.
func (s *GitHubSource) FetchEvents(ctx context.Context, repoID string, window schema.Window) ([]schema.RawRecord, error) {
	owner, name, ok := strings.Cut(repoID, "/")
	if !ok {
		return nil, fmt.Errorf("invalid repository %q", repoID)
	}

	commits, err := s.fetchCommits(ctx, owner, name, repoID, window)
	if err != nil {
		return nil, err
	}
	issues, err := s.fetchIssues(ctx, owner, name, repoID, window)
	if err != nil {
		return nil, err
	}
	pulls, numbers, err := s.fetchPulls(ctx, owner, name, repoID)
	if err != nil {
		return nil, err
	}
	comments, err := s.fetchComments(ctx, owner, name, repoID, window)
	if err != nil {
		return nil, err
	}
	reviews, err := s.fetchReviews(ctx, owner, name, repoID, numbers)
	if err != nil {
		return nil, err
	}

	records := make([]schema.RawRecord, 0, len(commits)+len(issues)+len(pulls)+len(comments)+len(reviews))
	records = append(records, commits...)
	records = append(records, issues...)
	records = append(records, pulls...)
	records = append(records, comments...)
	return append(records, reviews...), nil
}

func (s *GitHubSource) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (s *GitHubSource) fetchCommits(ctx context.Context, owner, name, repoID string, window schema.Window) ([]schema.RawRecord, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.CommitsListOptions{
		Since:       window.Start,
		Until:       window.End,
		ListOptions: github.ListOptions{PerPage: githubPerPage},
	}
	commits, _, err := s.client.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch commits: %w", err)
	}

	records := make([]schema.RawRecord, 0, len(commits))
	for _, c := range commits {
		author := c.GetCommit().GetAuthor()
		records = append(records, schema.RawRecord{
			Kind:         string(schema.CommitEvent),
			RepositoryID: repoID,
			Login:        c.GetAuthor().GetLogin(),
			Name:         author.GetName(),
			Email:        author.GetEmail(),
			Timestamp:    formatTimestamp(author.GetDate().Time),
			Text:         firstLine(c.GetCommit().GetMessage()),
		})
	}
	return records, nil
}

// fetchIssues converts issues into opened and closed records. Pull requests
// also show up in the issues listing and are skipped here.
func (s *GitHubSource) fetchIssues(ctx context.Context, owner, name, repoID string, window schema.Window) ([]schema.RawRecord, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       window.Start,
		ListOptions: github.ListOptions{PerPage: githubPerPage},
	}
	issues, _, err := s.client.Issues.ListByRepo(ctx, owner, name, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch issues: %w", err)
	}

	var records []schema.RawRecord
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		// The list payload usually omits closed_by, so the author is the fallback
		records = append(records, lifecycleRecords(repoID, lifecycle{
			opened:    schema.IssueOpenedEvent,
			closed:    schema.IssueClosedEvent,
			author:    issue.GetUser().GetLogin(),
			closer:    issue.GetClosedBy().GetLogin(),
			title:     issue.GetTitle(),
			createdAt: issue.GetCreatedAt().Time,
			closedAt:  issue.ClosedAt,
		})...)
	}
	return records, nil
}

// fetchPulls converts pull requests into opened, merged and closed records.
// It also returns the pull request numbers, for review lookups.
func (s *GitHubSource) fetchPulls(ctx context.Context, owner, name, repoID string) ([]schema.RawRecord, []int, error) {
	if err := s.wait(ctx); err != nil {
		return nil, nil, err
	}
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: githubPerPage},
	}
	pulls, _, err := s.client.PullRequests.List(ctx, owner, name, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch pull requests: %w", err)
	}

	var records []schema.RawRecord
	numbers := make([]int, 0, len(pulls))
	for _, pr := range pulls {
		lc := lifecycle{
			opened:    schema.PROpenedEvent,
			closed:    schema.PRClosedEvent,
			author:    pr.GetUser().GetLogin(),
			title:     pr.GetTitle(),
			createdAt: pr.GetCreatedAt().Time,
			closedAt:  pr.ClosedAt,
		}
		if pr.MergedAt != nil {
			lc.closed = schema.PRMergedEvent
			lc.closer = pr.GetMergedBy().GetLogin()
			lc.closedAt = pr.MergedAt
		}
		records = append(records, lifecycleRecords(repoID, lc)...)
		numbers = append(numbers, pr.GetNumber())
	}
	return records, numbers, nil
}

// lifecycle describes an issue or pull request from opening to closing.
type lifecycle struct {
	opened, closed schema.EventType
	author, closer string
	title          string
	createdAt      time.Time
	closedAt       *github.Timestamp
}

// lifecycleRecords returns the opened record and, when closed, a closing record
// carrying the time to close as its response latency.
func lifecycleRecords(repoID string, lc lifecycle) []schema.RawRecord {
	records := []schema.RawRecord{{
		Kind:         string(lc.opened),
		RepositoryID: repoID,
		Login:        lc.author,
		Timestamp:    formatTimestamp(lc.createdAt),
		Text:         lc.title,
	}}
	if lc.closedAt == nil {
		return records
	}
	closer := lc.closer
	if closer == "" {
		closer = lc.author
	}
	latency := lc.closedAt.Sub(lc.createdAt).Hours()
	return append(records, schema.RawRecord{
		Kind:         string(lc.closed),
		RepositoryID: repoID,
		Login:        closer,
		Timestamp:    formatTimestamp(lc.closedAt.Time),
		LatencyHours: &latency,
	})
}

func (s *GitHubSource) fetchComments(ctx context.Context, owner, name, repoID string, window schema.Window) ([]schema.RawRecord, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	since := window.Start
	opts := &github.IssueListCommentsOptions{
		Since:       &since,
		ListOptions: github.ListOptions{PerPage: githubPerPage},
	}
	// Issue number 0 lists comments across the whole repository
	comments, _, err := s.client.Issues.ListComments(ctx, owner, name, 0, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	records := make([]schema.RawRecord, 0, len(comments))
	for _, c := range comments {
		records = append(records, schema.RawRecord{
			Kind:         string(schema.CommentEvent),
			RepositoryID: repoID,
			Login:        c.GetUser().GetLogin(),
			Timestamp:    formatTimestamp(c.GetCreatedAt().Time),
			Text:         c.GetBody(),
		})
	}
	return records, nil
}

func (s *GitHubSource) fetchReviews(ctx context.Context, owner, name, repoID string, pulls []int) ([]schema.RawRecord, error) {
	if len(pulls) > maxReviewedPulls {
		pulls = pulls[:maxReviewedPulls]
	}

	var records []schema.RawRecord
	for _, number := range pulls {
		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		reviews, _, err := s.client.PullRequests.ListReviews(ctx, owner, name, number, &github.ListOptions{PerPage: githubPerPage})
		if err != nil {
			return nil, fmt.Errorf("fetch reviews for #%d: %w", number, err)
		}
		for _, r := range reviews {
			if r.SubmittedAt == nil {
				continue // pending reviews have no submission time
			}
			records = append(records, schema.RawRecord{
				Kind:         string(schema.ReviewEvent),
				RepositoryID: repoID,
				Login:        r.GetUser().GetLogin(),
				Timestamp:    formatTimestamp(r.GetSubmittedAt().Time),
				Text:         r.GetBody(),
			})
		}
	}
	return records, nil
}

// firstLine returns the subject line of a commit message.
func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(line)
}
