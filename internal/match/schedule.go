package match

import (
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var compactClock = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)

func newWhenParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseKickoff reads an RFC3339 timestamp or a phrase such as
// "next saturday at 10am" relative to now. The result must lie in the future.
func parseKickoff(w *when.Parser, input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, apperr.Invalid("a match date is required")
	}

	t, err := time.Parse(time.RFC3339, input)
	if err != nil {
		normalized := compactClock.ReplaceAllString(strings.ToLower(input), "$1:$2 $3")
		r, perr := w.Parse(normalized, now)
		if perr != nil {
			log.Debug("Error parsing match date", "input", input, "error", perr)
		}
		if r == nil {
			return time.Time{}, apperr.Invalid("could not understand the match date %q", input)
		}
		t = r.Time
	}

	t = t.UTC().Truncate(time.Minute)
	if !t.After(now.UTC()) {
		return time.Time{}, apperr.Invalid("the match date must be in the future (got %s)", t.Format(time.RFC3339))
	}
	return t, nil
}
