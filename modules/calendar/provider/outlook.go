package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"deadline-tracker/core/config"
	"deadline-tracker/core/constants"
	teacherentity "deadline-tracker/modules/teacher/entity"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// OutlookTokenStore is the slice of the teacher repository the Outlook
// client needs. *repository.TeacherRepository satisfies it.
type OutlookTokenStore interface {
	GetByID(ctx context.Context, id string) (*teacherentity.Teacher, error)
	UpdateOutlookTokens(ctx context.Context, teacherID, accessToken, refreshToken string, expiry time.Time) error
	ConnectOutlook(ctx context.Context, teacherID string) error
}

// OutlookClient talks to Microsoft Graph directly over REST. Tokens are not
// cached between calls: each Graph request runs a refresh-token grant first.
// That is one extra round trip per sync stage, paid deliberately to keep the
// client stateless.
type OutlookClient struct {
	store      OutlookTokenStore
	httpClient *http.Client

	// graphURL and authEndpoint override the real endpoints in tests.
	graphURL     string
	authEndpoint oauth2.Endpoint
}

func NewOutlookClient(store OutlookTokenStore) *OutlookClient {
	return &OutlookClient{
		store:      store,
		httpClient: &http.Client{Timeout: constants.ProviderCallTimeout},
		graphURL:   graphBaseURL,
	}
}

func (o *OutlookClient) oauthConfig() *oauth2.Config {
	cfg := config.Get()
	endpoint := microsoft.AzureADEndpoint("common")
	if o.authEndpoint.TokenURL != "" {
		endpoint = o.authEndpoint
	}
	return &oauth2.Config{
		ClientID:     cfg.AzureAPI.ClientID,
		ClientSecret: cfg.AzureAPI.ClientSecret,
		RedirectURL:  cfg.AzureAPI.RedirectURI,
		Scopes:       []string{"offline_access", "https://graph.microsoft.com/Calendars.ReadWrite"},
		Endpoint:     endpoint,
	}
}

func (o *OutlookClient) AuthCodeURL(teacherID string) string {
	return o.oauthConfig().AuthCodeURL(teacherID)
}

// Exchange trades the authorization code for tokens, persists them and marks
// the Outlook connection live.
func (o *OutlookClient) Exchange(ctx context.Context, code, teacherID string) error {
	token, err := o.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return &TokenExchangeError{Provider: constants.SourceOutlook, Err: err}
	}

	if err := o.store.UpdateOutlookTokens(ctx, teacherID, token.AccessToken, token.RefreshToken, token.Expiry); err != nil {
		return err
	}
	return o.store.ConnectOutlook(ctx, teacherID)
}

// accessToken runs the refresh-token grant and persists whatever Azure hands
// back (Azure rotates refresh tokens on every grant).
func (o *OutlookClient) accessToken(ctx context.Context, teacherID string) (string, error) {
	teacher, err := o.store.GetByID(ctx, teacherID)
	if err != nil {
		return "", err
	}
	if teacher == nil || !teacher.OutlookCalendarConnected || !teacher.HasOutlookRefreshToken() {
		return "", ErrNotConnected
	}

	src := o.oauthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: *teacher.OutlookRefreshToken})
	token, err := src.Token()
	if err != nil {
		return "", &ProviderError{Provider: constants.SourceOutlook, Op: "RefreshToken", Err: err}
	}

	if err := o.store.UpdateOutlookTokens(ctx, teacherID, token.AccessToken, token.RefreshToken, token.Expiry); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

type graphEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID          string         `json:"id"`
	Subject     string         `json:"subject"`
	BodyPreview string         `json:"bodyPreview"`
	Start       graphEventTime `json:"start"`
	End         graphEventTime `json:"end"`
	WebLink     string         `json:"webLink"`
}

type graphEventList struct {
	Value []graphEvent `json:"value"`
}

// ListEvents reads the default Outlook calendar, projected down to the
// fields the normalized event needs.
func (o *OutlookClient) ListEvents(ctx context.Context, teacherID string) ([]Event, error) {
	token, err := o.accessToken(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("$select", "subject,bodyPreview,start,end,webLink")
	query.Set("$top", strconv.Itoa(config.Get().Sync.PageSize))
	query.Set("$orderby", "start/dateTime")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		o.graphURL+"/me/calendar/events?"+query.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{Provider: constants.SourceOutlook, Op: "ListEvents", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: constants.SourceOutlook, Op: "ListEvents", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{
			Provider: constants.SourceOutlook,
			Op:       "ListEvents",
			Err:      fmt.Errorf("graph returned %d: %s", resp.StatusCode, body),
		}
	}

	var list graphEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &ProviderError{Provider: constants.SourceOutlook, Op: "DecodeEvents", Err: err}
	}

	events := make([]Event, 0, len(list.Value))
	for _, item := range list.Value {
		events = append(events, Event{
			ID:          constants.SourceOutlook + "_" + item.ID,
			Summary:     item.Subject,
			Description: item.BodyPreview,
			Start:       item.Start.DateTime,
			End:         item.End.DateTime,
			HTMLLink:    item.WebLink,
			Source:      constants.SourceOutlook,
		})
	}
	return events, nil
}
