package sentra

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
)

// Preferences holds the auxiliary account settings the bridge cares about.
type Preferences struct {
	// DefaultStayProfileID is the account-wide stay profile, 0 when unset.
	DefaultStayProfileID int64
}

// FetchSyncInfo retrieves the account topology and resolves the operable
// site from the first master site. An account without master sites is
// unusable and reported as a SyncError.
func (c *Client) FetchSyncInfo(ctx context.Context) error {
	sess := c.Session()
	if !sess.Authenticated() {
		return &SyncError{Cause: errNotAuthenticated}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	payload := syncInfoRequest{
		baseRequest: c.baseRequestPayload(sess.Token),
		UserID:      sess.UserID,
	}

	req, err := c.newRequest(callCtx, http.MethodPost, "/device/getSyncInfo", payload)
	if err != nil {
		return &SyncError{Cause: err}
	}

	var resp syncInfoResponse
	if err := c.doRequest(req, &resp); err != nil {
		return &SyncError{Cause: err}
	}

	if err := resp.validate(); err != nil {
		return &SyncError{Cause: err}
	}

	c.setSiteID(resp.MasterSites[0].ID)

	return nil
}

// FetchStateInfo retrieves the detailed panel state for the session site
// and maps it into a domain snapshot.
func (c *Client) FetchStateInfo(ctx context.Context) (*panel.State, error) {
	sess := c.Session()
	if !sess.Authenticated() {
		return nil, &StateInfoError{Cause: errNotAuthenticated}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	payload := stateInfoRequest{
		baseRequest: c.baseRequestPayload(sess.Token),
		UserID:      sess.UserID,
		SiteID:      sess.SiteID,
	}

	req, err := c.newRequest(callCtx, http.MethodPost, "/device/getStateInfo", payload)
	if err != nil {
		return nil, &StateInfoError{Cause: err}
	}

	var resp stateInfoResponse
	if err := c.doRequest(req, &resp); err != nil {
		return nil, &StateInfoError{Cause: err}
	}

	if err := resp.validate(); err != nil {
		return nil, &StateInfoError{Cause: err}
	}

	return mapStateInfo(&resp)
}

// FetchUserPreferences retrieves auxiliary account preferences.
// Failures here never block the refresh cycle, callers treat the data as
// best-effort.
func (c *Client) FetchUserPreferences(ctx context.Context) (*Preferences, error) {
	sess := c.Session()
	if !sess.Authenticated() {
		return nil, &PreferencesError{Cause: errNotAuthenticated}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	payload := userPreferencesRequest{
		baseRequest: c.baseRequestPayload(sess.Token),
		UserID:      sess.UserID,
		SiteID:      sess.SiteID,
	}

	req, err := c.newRequest(callCtx, http.MethodPost, "/user/getUserPreferences", payload)
	if err != nil {
		return nil, &PreferencesError{Cause: err}
	}

	var resp userPreferencesResponse
	if err := c.doRequest(req, &resp); err != nil {
		return nil, &PreferencesError{Cause: err}
	}

	if err := resp.validate(); err != nil {
		return nil, &PreferencesError{Cause: err}
	}

	return &Preferences{
		DefaultStayProfileID: resp.DefaultStayProfileID,
	}, nil
}

// FetchState produces one consistent panel snapshot.
// It never returns partial state, any failure surfaces as a FetchError
// wrapping the stage that failed.
func (c *Client) FetchState(ctx context.Context) (*panel.State, error) {
	state, err := c.FetchStateInfo(ctx)
	if err != nil {
		return nil, &FetchError{Cause: err}
	}

	if !state.Alarm.Populated() {
		return nil, &FetchError{Cause: errAlarmSectionMissing}
	}

	return state, nil
}

// mapStateInfo converts a validated wire payload into a domain snapshot.
func mapStateInfo(resp *stateInfoResponse) (*panel.State, error) {
	armingState, ok := panel.ParseArmingState(resp.ArmingState)
	if !ok {
		return nil, &StateInfoError{Cause: errUnknownArmingState}
	}

	faultStatus := panel.FaultStatusOK
	if resp.FaultStatus == string(panel.FaultStatusFault) {
		faultStatus = panel.FaultStatusFault
	}

	sensors := make(map[string]panel.SensorState, len(resp.Zones))

	for _, zone := range resp.Zones {
		key := zone.Name
		if key == "" {
			key = strconv.FormatInt(zone.ID, 10)
		}

		position := panel.SensorStateClosed
		if zone.Open {
			position = panel.SensorStateOpen
		}

		sensors[key] = position
	}

	return &panel.State{
		FetchedAt: time.Now(),
		Alarm: &panel.Alarm{
			ArmingState: armingState,
			FaultStatus: faultStatus,
			SirenActive: resp.SirenActive,
		},
		ContactSensors: sensors,
	}, nil
}
