package sentra

import (
	"context"
	"fmt"
	"net/http"
)

// ArmRequest describes a panel arming command.
type ArmRequest struct {
	// Arm is true to arm the panel and false to disarm it.
	Arm bool
	// Pin is the keypad PIN, the vendor requires it to disarm.
	Pin string
	// StayProfileID selects a stay profile when arming in stay mode, 0 for away.
	StayProfileID int64
	// PartitionID targets a single partition, 0 for the whole site.
	PartitionID int64
}

// ArmSite submits an arming command for the session site.
// The cached snapshot is not touched here, callers force a resync after a
// successful command.
func (c *Client) ArmSite(ctx context.Context, armReq ArmRequest) error {
	sess := c.Session()
	if !sess.Authenticated() {
		return &CommandError{Cause: errNotAuthenticated}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	payload := armSiteRequest{
		baseRequest:   c.baseRequestPayload(sess.Token),
		UserID:        sess.UserID,
		SiteID:        sess.SiteID,
		Arm:           armReq.Arm,
		Pin:           armReq.Pin,
		StayProfileID: armReq.StayProfileID,
		PartitionID:   armReq.PartitionID,
	}

	req, err := c.newRequest(callCtx, http.MethodPost, "/device/armSite", payload)
	if err != nil {
		return &CommandError{Cause: err}
	}

	var resp armSiteResponse
	if err := c.doRequest(req, &resp); err != nil {
		return &CommandError{Cause: err}
	}

	if err := resp.validate(); err != nil {
		if resp.Message != "" {
			return &CommandError{Cause: fmt.Errorf("%w: %s", err, resp.Message)}
		}

		return &CommandError{Cause: err}
	}

	return nil
}
