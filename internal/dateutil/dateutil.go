// Package dateutil computes the reporting date. The portal runs on Indian
// Standard Time, so "yesterday" is always relative to Asia/Kolkata no matter
// where the bot itself runs.
package dateutil

import "time"

const (
	LayoutISO       = "2006-01-02"
	LayoutDayMonAbb = "02-Jan-2006"
	LayoutDMYSlash  = "02/01/2006"
	LayoutDMYDash   = "02-01-2006"
)

// IST is the portal's timezone. The fixed zone avoids a hard dependency on
// the host tzdata; Asia/Kolkata has had no transitions since 1945.
var IST = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+1800)
}()

// Yesterday returns the previous civil day in IST for the given instant.
func Yesterday(now time.Time) time.Time {
	return now.In(IST).AddDate(0, 0, -1)
}

// Renderings formats the date in every layout the portal's date widget has
// been seen to accept. The widget's expected format is undocumented, so the
// caller tries each in order until one sticks.
func Renderings(d time.Time) []string {
	return []string{
		d.Format(LayoutISO),
		d.Format(LayoutDayMonAbb),
		d.Format(LayoutDMYSlash),
		d.Format(LayoutDMYDash),
	}
}
