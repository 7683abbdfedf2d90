package platform

// AppName is reported to the notification service as the sender.
const AppName = "Sketchpad"

// Urgency mirrors the freedesktop urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgency raises failures above routine confirmations.
	Urgency Urgency
}

// timeoutMillis is how long a notification stays up. Critical ones stay
// until dismissed where the platform allows it.
func (o Options) timeoutMillis() int32 {
	if o.Urgency == UrgencyCritical {
		return 0
	}
	return 5000
}
