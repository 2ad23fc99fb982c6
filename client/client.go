package client

import (
	"context"
	"fmt"
	"net/http"

	"matchmaker_core/models"
	"matchmaker_core/storage"

	"github.com/rs/zerolog"
)

// Options configures a Client. BaseURL is required; everything else has a
// usable zero value.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Cache          *storage.Cache
	LocationSource LocationSource
	Location       ReporterOptions
	Logger         zerolog.Logger
}

// Client bundles the core components around one authenticated session:
// location reporting, the candidate feed, the match list, the conversation
// gate, and the delegated-identity switch. All cross-component signaling
// goes through a bus scoped to this instance.
type Client struct {
	Session  *Session
	Location *Reporter
	Feed     *Feed
	Matches  *Matches
	Daters   *DaterSwitch

	api *API
	bus *Bus
	log zerolog.Logger
}

func New(opts Options) *Client {
	logger := opts.Logger
	session := NewSession(opts.Cache, logger)
	api := NewAPI(opts.BaseURL, session, opts.HTTPClient, logger)
	bus := NewBus()

	return &Client{
		Session:  session,
		Location: NewReporter(api, bus, opts.LocationSource, opts.Location, logger),
		Feed:     NewFeed(api, bus, logger),
		Matches:  NewMatches(api, session, bus, logger),
		Daters:   NewDaterSwitch(api, session, bus, logger),
		api:      api,
		bus:      bus,
		log:      logger,
	}
}

// Subscribe registers a handler for a core event and returns an
// unsubscribe func. Meant for views keyed to the acting context.
func (c *Client) Subscribe(ev Event, fn func()) func() {
	return c.bus.Subscribe(ev, fn)
}

// LoadSession fetches the actor's profile, narrows it into the right
// variant, and for matchmakers loads the linked daters and establishes
// the acting context. The server's reported selection wins when present;
// the locally cached one and the referring relationship are only fallbacks,
// and whatever is adopted is cached as the last-known value.
func (c *Client) LoadSession(ctx context.Context) error {
	var profile models.SessionProfile
	if err := c.api.get(ctx, "/profile/", &profile); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	c.Session.adoptProfile(profile)

	if profile.User.Role != models.RoleMatchmaker {
		return nil
	}

	linked, err := c.Daters.ListLinkedDaters(ctx)
	if err != nil {
		return err
	}
	if len(linked) == 0 {
		return nil
	}

	selected := profile.User.SelectedDaterID
	if selected == "" {
		selected = c.Session.cachedSelectedDater()
	}
	if selected == "" && profile.Referrer != nil {
		selected = profile.Referrer.ID
	}
	if !memberOf(linked, selected) {
		selected = linked[0].ID
	}
	c.Session.setSelectedDater(selected)
	return nil
}

// Conversation opens the conversation gate for a match. The gating state is
// seeded from the local match list when available and refreshed from every
// server response.
func (c *Client) Conversation(matchID string) *Conversation {
	return newConversation(c.api, c.Session, c.Matches, matchID, c.log)
}

// Logout tears down process-wide state: the location watch, the session
// credential and cache, and the linked-dater context. Safe to call when
// nothing was ever started.
func (c *Client) Logout() {
	c.Location.Stop()
	c.Daters.Reset()
	c.Session.Reset()
}

func memberOf(daters []models.Dater, id string) bool {
	if id == "" {
		return false
	}
	for _, d := range daters {
		if d.ID == id {
			return true
		}
	}
	return false
}
