package provider

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"deadline-tracker/core/constants"

	"github.com/emersion/go-ical"
)

// ICalClient fetches and parses read-only .ics feeds.
type ICalClient struct {
	httpClient *http.Client
}

func NewICalClient() *ICalClient {
	return &ICalClient{
		httpClient: &http.Client{Timeout: constants.ProviderCallTimeout},
	}
}

// FetchFeedEvents downloads one feed and extracts its VEVENTs. Events
// without a UID get the element index as a stable fallback so re-fetching
// the same feed maps to the same composite ids.
func (c *ICalClient) FetchFeedEvents(ctx context.Context, feedID, feedURL string) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &FeedFetchError{URL: feedURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedFetchError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedFetchError{URL: feedURL, Err: fmt.Errorf("feed returned %d", resp.StatusCode)}
	}

	cal, err := ical.NewDecoder(resp.Body).Decode()
	if err != nil {
		return nil, &FeedFetchError{URL: feedURL, Err: err}
	}

	var events []Event
	for i, child := range cal.Children {
		if child.Name != ical.CompEvent {
			continue
		}

		uid := propText(child, ical.PropUID)
		if uid == "" {
			uid = strconv.Itoa(i)
		}

		events = append(events, Event{
			ID:          fmt.Sprintf("%s_%s_%s", constants.SourceICal, feedID, uid),
			Summary:     propText(child, ical.PropSummary),
			Description: propText(child, ical.PropDescription),
			Start:       propTime(child, ical.PropDateTimeStart),
			End:         propTime(child, ical.PropDateTimeEnd),
			HTMLLink:    propText(child, ical.PropURL),
			Source:      constants.SourceICal,
			FeedID:      feedID,
		})
	}
	return events, nil
}

func propText(comp *ical.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}

func propTime(comp *ical.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	t, err := prop.DateTime(time.UTC)
	if err != nil {
		// DATE values without a parseable time keep the raw text.
		return prop.Value
	}
	return t.Format(time.RFC3339)
}
