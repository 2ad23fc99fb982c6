package client

import (
	"context"
	"fmt"
	"sync"

	"matchmaker_core/models"

	"github.com/rs/zerolog"
)

// DaterSwitch lets a matchmaker pick which linked dater they are acting as.
// A successful selection re-scopes the feed and match list through
// EventContextChanged; a rejected one leaves the previous context intact.
type DaterSwitch struct {
	api     *API
	session *Session
	bus     *Bus
	log     zerolog.Logger

	mu     sync.Mutex
	loaded bool
	linked []models.Dater
}

func NewDaterSwitch(api *API, session *Session, bus *Bus, logger zerolog.Logger) *DaterSwitch {
	return &DaterSwitch{api: api, session: session, bus: bus, log: logger}
}

type linkedDatersResponse struct {
	LinkedDaters []models.Dater `json:"linked_daters"`
}

// ListLinkedDaters returns the matchmaker's linked daters in server order.
// The list is fetched once per session load and cached.
func (d *DaterSwitch) ListLinkedDaters(ctx context.Context) ([]models.Dater, error) {
	actor := d.session.Actor()
	mm, ok := actor.(models.Matchmaker)
	if !ok {
		return nil, ErrNotMatchmaker
	}

	d.mu.Lock()
	if d.loaded {
		linked := d.linked
		d.mu.Unlock()
		return linked, nil
	}
	d.mu.Unlock()

	var res linkedDatersResponse
	if err := d.api.get(ctx, "/referral/referrals/"+mm.ID, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch linked daters: %w", err)
	}

	d.mu.Lock()
	d.linked = res.LinkedDaters
	d.loaded = true
	d.mu.Unlock()

	d.session.updateLinkedDaters(res.LinkedDaters)
	return res.LinkedDaters, nil
}

// SelectDater validates daterID against the linked set, persists the choice
// locally and server-side, and emits EventContextChanged only on success.
func (d *DaterSwitch) SelectDater(ctx context.Context, daterID string) error {
	if _, err := d.ListLinkedDaters(ctx); err != nil {
		return err
	}

	d.mu.Lock()
	member := false
	for _, dater := range d.linked {
		if dater.ID == daterID {
			member = true
			break
		}
	}
	d.mu.Unlock()
	if !member {
		return ErrNotLinkedDater
	}

	body := map[string]string{"selected_dater_id": daterID}
	if err := d.api.post(ctx, "/referral/set_selected_dater", body, nil); err != nil {
		// The server is the authority; a rejection leaves the previous
		// selection untouched.
		return fmt.Errorf("failed to set selected dater: %w", err)
	}

	d.session.setSelectedDater(daterID)
	d.log.Info().Str("daterId", daterID).Msg("acting context switched")
	d.bus.Publish(EventContextChanged)
	return nil
}

// Selected returns the current acting dater's id, or "" when none.
func (d *DaterSwitch) Selected() string {
	if mm, ok := d.session.Actor().(models.Matchmaker); ok {
		return mm.SelectedDaterID
	}
	return ""
}

// Reset drops the cached linked set, forcing a refetch on next use. Called
// on logout and context teardown; safe when never loaded.
func (d *DaterSwitch) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.linked = nil
}
