package dispatch

import (
	"regexp"
	"strings"
)

const (
	// EventNewDeliveryRequest surfaces an accepted order to agents watching
	// the vendor's zone.
	EventNewDeliveryRequest = "new_delivery_request"
	// EventOrderUpdated tells dashboards watching an order to re-fetch.
	EventOrderUpdated = "order_updated"

	zoneChannelPrefix = "delivery_"
	updatesChannel    = "order_updates"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ZoneKey normalizes a free-text location into a stable zone key: trimmed,
// lowercased, with whitespace runs collapsed to a single underscore. Publish
// and subscribe both go through this function; so does the zone_key column
// written by the location and vendor services.
func ZoneKey(location string) string {
	key := strings.ToLower(strings.TrimSpace(location))
	return whitespaceRe.ReplaceAllString(key, "_")
}

// ZoneChannel returns the pub/sub channel for a zone, e.g. "Hostel A" →
// "delivery_hostel_a".
func ZoneChannel(location string) string {
	return zoneChannelPrefix + ZoneKey(location)
}
