// Package timezone converts between user-local wall-clock times and
// absolute UTC instants.
//
// Members enter availability in their own IANA zone; everything is stored
// in UTC and converted back for display:
//
//	start, err := timezone.ToAbsolute(local, "Europe/Paris")
//	shown, err := timezone.ToLocal(start, profile.Timezone)
//
// An empty zone identifier resolves to the configured application default
// (APP_TIMEZONE, falling back to Europe/Paris). A non-empty identifier that
// the zone database cannot resolve is rejected with
// failure.InvalidTimezoneError; it is never silently replaced.
//
// Round-trip: ToLocal(ToAbsolute(t, z), z) preserves the wall clock for any
// t that does not fall in a DST gap.
package timezone
