package timezone

import (
	"sync"
	"time"

	"caseclub/config"
	"caseclub/shared/failure"

	"github.com/rs/zerolog/log"
)

const fallbackZone = "Europe/Paris"

var (
	defaultLoc  *time.Location
	defaultOnce sync.Once
)

// DefaultLocation resolves the configured application zone once, falling
// back to Europe/Paris when the configuration is empty or unresolvable.
func DefaultLocation() *time.Location {
	defaultOnce.Do(func() {
		zone := config.Get().App.Timezone
		if zone == "" {
			zone = fallbackZone
		}

		loc, err := time.LoadLocation(zone)
		if err != nil {
			log.Error().
				Err(err).
				Str("timezone", zone).
				Msg("Failed to load configured timezone, falling back to Europe/Paris")

			loc, err = time.LoadLocation(fallbackZone)
			if err != nil {
				loc = time.UTC
			}
		}

		defaultLoc = loc
	})

	return defaultLoc
}

// Resolve maps an IANA zone identifier to its location. An empty identifier
// resolves to the default location; a malformed one is an error, never a
// silent fallback.
func Resolve(zone string) (*time.Location, error) {
	if zone == "" {
		return DefaultLocation(), nil
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		log.Warn().Str("timezone", zone).Msg("unresolvable timezone identifier")

		return nil, failure.InvalidTimezoneError
	}

	return loc, nil
}

// ToAbsolute interprets the wall-clock fields of local as a time in the
// given zone and returns the corresponding UTC instant. Times inside a DST
// transition resolve by the zone database's standard disambiguation.
func ToAbsolute(local time.Time, zone string) (time.Time, error) {
	loc, err := Resolve(zone)
	if err != nil {
		return time.Time{}, err
	}

	year, month, day := local.Date()
	hour, minute, sec := local.Clock()

	return time.Date(year, month, day, hour, minute, sec, local.Nanosecond(), loc).UTC(), nil
}

// ToLocal converts a UTC instant to wall-clock time in the given zone.
func ToLocal(utc time.Time, zone string) (time.Time, error) {
	loc, err := Resolve(zone)
	if err != nil {
		return time.Time{}, err
	}

	return utc.In(loc), nil
}

// ParseLocal parses value as a wall-clock time in the given zone and returns
// the UTC instant.
func ParseLocal(layout, value, zone string) (time.Time, error) {
	loc, err := Resolve(zone)
	if err != nil {
		return time.Time{}, err
	}

	local, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, failure.BadRequest(err)
	}

	return local.UTC(), nil
}

// Now returns the current time in the default application zone.
func Now() time.Time {
	return time.Now().In(DefaultLocation())
}

// Format formats a UTC instant in the given zone, defaulting on resolution
// failure to the instant's own location.
func Format(t time.Time, layout, zone string) string {
	loc, err := Resolve(zone)
	if err != nil {
		return t.Format(layout)
	}

	return t.In(loc).Format(layout)
}
