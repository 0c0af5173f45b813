// Package analytics fetches per-video performance metrics from the YouTube
// Analytics API.
package analytics

import (
	"context"
	"fmt"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtubeanalytics/v2"
)

var log = logger.GetOrCreate("analytics")

const (
	// metrics is the fixed daily metric set fetched per video.
	metrics = "views,estimatedMinutesWatched,averageViewDuration,subscribersGained"
	// trailingWindowDays is the fixed query window ending today.
	trailingWindowDays = 90
	// maxResultRows caps the number of returned rows.
	maxResultRows = 100

	dateLayout = "2006-01-02"
)

// Client queries the YouTube Analytics API for the authenticated channel.
type Client struct {
	service *youtubeanalytics.Service

	// now is the clock used to anchor the trailing window; injected in tests.
	now func() time.Time
}

// NewClient creates an analytics client authorized by the given token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	service, err := youtubeanalytics.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create analytics service: %w", err)
	}
	return &Client{service: service, now: time.Now}, nil
}

// FetchVideoStats queries daily performance metrics for one video over the
// trailing 90-day window ending today.
func (c *Client) FetchVideoStats(ctx context.Context, videoID string) (*youtubeanalytics.QueryResponse, error) {
	endDate := c.now()
	startDate := endDate.AddDate(0, 0, -trailingWindowDays)

	log.Info("fetching analytics", "video", videoID,
		"startDate", startDate.Format(dateLayout), "endDate", endDate.Format(dateLayout))

	resp, err := c.service.Reports.Query().
		Ids("channel==MINE").
		StartDate(startDate.Format(dateLayout)).
		EndDate(endDate.Format(dateLayout)).
		Metrics(metrics).
		Dimensions("day").
		Filters("video==" + videoID).
		MaxResults(maxResultRows).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("query analytics for video %s: %w", videoID, err)
	}
	return resp, nil
}
