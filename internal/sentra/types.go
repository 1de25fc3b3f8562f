package sentra

// statusSuccess is the marker used by the status-style endpoints.
// The preferences and arming endpoints use a boolean "success" field instead;
// the inconsistency is the vendor's, not ours.
const statusSuccess = "SUCCESS"

// baseRequest carries the token and device identity common to all POST calls.
type baseRequest struct {
	Token    string `json:"token"`
	AppID    string `json:"appId"`
	DeviceOS string `json:"deviceOS"`
	DeviceID string `json:"deviceId"`
}

// loginResponse is the payload of GET /auth/login.
type loginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	User   struct {
		ID int64 `json:"id"`
	} `json:"user"`
}

// validate checks the response for the success marker and required fields.
func (r *loginResponse) validate() error {
	if r.Status != statusSuccess {
		return errLoginRejected
	}

	if r.Token == "" {
		return errTokenMissing
	}

	return nil
}

// syncInfoRequest is the payload of POST /device/getSyncInfo.
type syncInfoRequest struct {
	baseRequest

	UserID int64 `json:"userId"`
}

// masterSite is one account site in the sync info response.
type masterSite struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// syncInfoResponse is the payload of POST /device/getSyncInfo.
type syncInfoResponse struct {
	Status      string       `json:"status"`
	MasterSites []masterSite `json:"masterSites"`
}

// validate checks the response for the success marker and at least one site.
func (r *syncInfoResponse) validate() error {
	if r.Status != statusSuccess {
		return errSyncRejected
	}

	if len(r.MasterSites) == 0 {
		return errNoMasterSites
	}

	return nil
}

// stateInfoRequest is the payload of POST /device/getStateInfo.
type stateInfoRequest struct {
	baseRequest

	UserID int64 `json:"userId"`
	SiteID int64 `json:"siteId"`
}

// zoneState is one zone entry in the state info response.
type zoneState struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Open bool   `json:"open"`
}

// stateInfoResponse is the payload of POST /device/getStateInfo.
type stateInfoResponse struct {
	Status      string      `json:"status"`
	ArmingState string      `json:"armingState"`
	FaultStatus string      `json:"faultStatus"`
	SirenActive bool        `json:"sirenActive"`
	Zones       []zoneState `json:"zones"`
}

// validate checks the response for the success marker and a usable alarm section.
func (r *stateInfoResponse) validate() error {
	if r.Status != statusSuccess {
		return errStateRejected
	}

	if r.ArmingState == "" {
		return errAlarmSectionMissing
	}

	return nil
}

// userPreferencesRequest is the payload of POST /user/getUserPreferences.
type userPreferencesRequest struct {
	baseRequest

	UserID int64 `json:"userId"`
	SiteID int64 `json:"siteId"`
}

// userPreferencesResponse is the payload of POST /user/getUserPreferences.
type userPreferencesResponse struct {
	Success              bool  `json:"success"`
	DefaultStayProfileID int64 `json:"defaultStayProfileId"`
}

// validate checks the response for the success marker.
func (r *userPreferencesResponse) validate() error {
	if !r.Success {
		return errPreferencesRejected
	}

	return nil
}

// armSiteRequest is the payload of POST /device/armSite.
type armSiteRequest struct {
	baseRequest

	UserID        int64  `json:"userId"`
	SiteID        int64  `json:"siteId"`
	Arm           bool   `json:"arm"`
	Pin           string `json:"pin,omitempty"`
	StayProfileID int64  `json:"stayProfileId,omitempty"`
	PartitionID   int64  `json:"partitionId,omitempty"`
}

// armSiteResponse is the payload of POST /device/armSite.
type armSiteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// validate checks the response for the success marker.
func (r *armSiteResponse) validate() error {
	if !r.Success {
		return errCommandRejected
	}

	return nil
}
