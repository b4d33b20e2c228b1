package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgfetch/TGFetch/internal/log"
	"github.com/tgfetch/TGFetch/internal/meta"
)

const latestReleaseURL = "https://api.github.com/repos/tgfetch/TGFetch/releases/latest"

type release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Check queries the latest published release and logs an upgrade notice
// when the running version is behind. The check is best-effort: every
// failure is swallowed at debug level.
func Check(ctx context.Context) {
	ll := getLogger("Check")
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		ll.WithError(err).Debug("can not build update check request")
		return
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		ll.WithError(err).Debug("update check request failed")
		return
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		ll.Debugf("update check returned status %d", res.StatusCode)
		return
	}
	var latest release
	if err := json.NewDecoder(res.Body).Decode(&latest); err != nil {
		ll.WithError(err).Debug("can not decode update check response")
		return
	}
	if latest.TagName == "" || latest.TagName == fmt.Sprintf("v%s", meta.Version) {
		return
	}
	ll.Warnf("new version available: %s (running v%s). see %s", latest.TagName, meta.Version, latest.HTMLURL)
}

func getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.UpdatesModule).WithField("func", fn)
}
