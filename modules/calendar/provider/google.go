package provider

import (
	"context"
	"sync"
	"time"

	"deadline-tracker/core/config"
	"deadline-tracker/core/constants"
	"deadline-tracker/core/logger"
	teacherentity "deadline-tracker/modules/teacher/entity"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleTokenStore is the slice of the teacher repository the Google client
// needs. *repository.TeacherRepository satisfies it.
type GoogleTokenStore interface {
	GetByID(ctx context.Context, id string) (*teacherentity.Teacher, error)
	UpdateGoogleTokens(ctx context.Context, teacherID, accessToken, refreshToken string, expiry time.Time) error
	ConnectGoogle(ctx context.Context, teacherID string) error
}

type GoogleClient struct {
	store GoogleTokenStore

	// endpoint overrides the Calendar API base URL in tests.
	endpoint string
}

func NewGoogleClient(store GoogleTokenStore) *GoogleClient {
	return &GoogleClient{store: store}
}

func (g *GoogleClient) oauthConfig() *oauth2.Config {
	cfg := config.Get()
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     googleoauth.Endpoint,
	}
}

// AuthCodeURL builds the consent URL. Offline access with forced consent so
// Google returns a refresh token on every connect, not only the first one.
func (g *GoogleClient) AuthCodeURL(teacherID string) string {
	return g.oauthConfig().AuthCodeURL(teacherID,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades the authorization code for tokens and persists them.
func (g *GoogleClient) Exchange(ctx context.Context, code, teacherID string) error {
	token, err := g.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return &TokenExchangeError{Provider: constants.SourceGoogle, Err: err}
	}

	if err := g.store.UpdateGoogleTokens(ctx, teacherID, token.AccessToken, token.RefreshToken, token.Expiry); err != nil {
		return err
	}
	return g.store.ConnectGoogle(ctx, teacherID)
}

// service builds a Calendar API client for one call. The token source is
// constructed from freshly loaded credentials and is never shared between
// requests; refreshed tokens are written back before the API call returns.
func (g *GoogleClient) service(ctx context.Context, teacherID string) (*calendar.Service, *teacherentity.Teacher, error) {
	teacher, err := g.store.GetByID(ctx, teacherID)
	if err != nil {
		return nil, nil, err
	}
	if teacher == nil || !teacher.CalendarConnected || !teacher.HasGoogleTokens() {
		return nil, nil, ErrNotConnected
	}

	token := &oauth2.Token{
		AccessToken:  *teacher.GoogleAccessToken,
		RefreshToken: *teacher.GoogleRefreshToken,
	}
	if teacher.GoogleTokenExpiry != nil {
		token.Expiry = *teacher.GoogleTokenExpiry
	}

	src := &persistingTokenSource{
		src:       g.oauthConfig().TokenSource(ctx, token),
		store:     g.store,
		teacherID: teacherID,
		ctx:       ctx,
		last:      token,
	}

	opts := []option.ClientOption{option.WithTokenSource(src)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, &ProviderError{Provider: constants.SourceGoogle, Op: "NewService", Err: err}
	}
	return svc, teacher, nil
}

// ListCalendars returns the calendars the teacher can write to.
func (g *GoogleClient) ListCalendars(ctx context.Context, teacherID string) ([]CalendarInfo, error) {
	svc, _, err := g.service(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	list, err := svc.CalendarList.List().MinAccessRole("writer").Context(ctx).Do()
	if err != nil {
		return nil, &ProviderError{Provider: constants.SourceGoogle, Op: "ListCalendars", Err: err}
	}

	calendars := make([]CalendarInfo, 0, len(list.Items))
	for _, item := range list.Items {
		calendars = append(calendars, CalendarInfo{
			ID:              item.Id,
			Summary:         item.Summary,
			Primary:         item.Primary,
			BackgroundColor: item.BackgroundColor,
		})
	}
	return calendars, nil
}

// ListEvents reads the linked calendar within [timeMin, timeMax), expanded
// to single events in start order.
func (g *GoogleClient) ListEvents(ctx context.Context, teacherID string, timeMin, timeMax time.Time) ([]Event, error) {
	svc, teacher, err := g.service(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher.LinkedCalendarID == nil || *teacher.LinkedCalendarID == "" {
		return nil, ErrNoCalendarLinked
	}

	list, err := svc.Events.List(*teacher.LinkedCalendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		MaxResults(int64(config.Get().Sync.PageSize)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &ProviderError{Provider: constants.SourceGoogle, Op: "ListEvents", Err: err}
	}

	events := make([]Event, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, Event{
			ID:          constants.SourceGoogle + "_" + item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Start:       eventTime(item.Start),
			End:         eventTime(item.End),
			HTMLLink:    item.HtmlLink,
			Source:      constants.SourceGoogle,
		})
	}
	return events, nil
}

// InsertEvent creates an event on the linked calendar and returns its id.
func (g *GoogleClient) InsertEvent(ctx context.Context, teacherID string, in EventInput) (string, error) {
	svc, teacher, err := g.service(ctx, teacherID)
	if err != nil {
		return "", err
	}
	if teacher.LinkedCalendarID == nil || *teacher.LinkedCalendarID == "" {
		return "", ErrNoCalendarLinked
	}

	event := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       &calendar.EventDateTime{DateTime: in.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: in.End.Format(time.RFC3339)},
	}

	created, err := svc.Events.Insert(*teacher.LinkedCalendarID, event).Context(ctx).Do()
	if err != nil {
		return "", &ProviderError{Provider: constants.SourceGoogle, Op: "InsertEvent", Err: err}
	}
	return created.Id, nil
}

// DeleteEvent removes an event from the linked calendar.
func (g *GoogleClient) DeleteEvent(ctx context.Context, teacherID, eventID string) error {
	svc, teacher, err := g.service(ctx, teacherID)
	if err != nil {
		return err
	}
	if teacher.LinkedCalendarID == nil || *teacher.LinkedCalendarID == "" {
		return ErrNoCalendarLinked
	}

	if err := svc.Events.Delete(*teacher.LinkedCalendarID, eventID).Context(ctx).Do(); err != nil {
		return &ProviderError{Provider: constants.SourceGoogle, Op: "DeleteEvent", Err: err}
	}
	return nil
}

func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// persistingTokenSource writes tokens through the teacher repository when
// the wrapped source hands back a different access token, so a refresh done
// by the API client survives the request.
type persistingTokenSource struct {
	src       oauth2.TokenSource
	store     GoogleTokenStore
	teacherID string
	ctx       context.Context

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && token.AccessToken == s.last.AccessToken {
		return token, nil
	}

	// An empty rotated refresh token falls back to the stored one in SQL.
	if err := s.store.UpdateGoogleTokens(s.ctx, s.teacherID, token.AccessToken, token.RefreshToken, token.Expiry); err != nil {
		logger.Error("GoogleClient:PersistRefreshedToken:Error:", err)
	}
	s.last = token
	return token, nil
}
