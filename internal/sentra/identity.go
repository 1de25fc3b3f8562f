package sentra

// Device identity constants sent with every request. The vendor cloud only
// serves recognized mobile clients, so the bridge presents itself as the
// official Android app.
const (
	appPackageID = "com.sentrahome.cloud"
	deviceOS     = "Android 13"
	deviceID     = "351777042882370"
	userAgent    = "SentraHome/4.2.1 (Android; sentra-bridge)"
)
