// Package report renders an assessment as a Telegram Markdown message.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/neexbeast/cycling-advice/internal/advice"
)

const (
	dateLayout  = "02/01/2006"
	clockLayout = "03:04:05PM"
)

// Render builds the advisory text. now supplies the date in the recipient's
// local timezone; sunrise and sunset are shown in zone, the forecast's own
// timezone. Absent metrics are left out.
func Render(now time.Time, zone *time.Location, a advice.Assessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Cycling Weather Conditions on %s between %s and %s*",
		now.Format(dateLayout),
		time.Unix(a.Window.Sunrise, 0).In(zone).Format(clockLayout),
		time.Unix(a.Window.Sunset, 0).In(zone).Format(clockLayout),
	)
	b.WriteString("\n\n")
	b.WriteString(a.Tier.String())

	lines := make([]string, 0, 4)
	for _, l := range []struct {
		label string
		value advice.Value
		unit  string
	}{
		{"Average Feels Like", a.Metrics.FeelsLike, "°C"},
		{"Average Wind Speed", a.Metrics.WindSpeed, "km/h"},
		{"Total Rain", a.Metrics.Rain, "mm"},
		{"Total Snow", a.Metrics.Snow, "mm"},
	} {
		if !l.value.Present() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: *%s*%s", l.label, l.value, l.unit))
	}

	if len(lines) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(lines, "\n"))
	}

	return b.String()
}
