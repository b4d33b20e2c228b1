package log

import (
	"github.com/sirupsen/logrus"
)

type LogModule string

const (
	ConfigModule   LogModule = "config"
	MediaModule    LogModule = "media"
	StateModule    LogModule = "state"
	FileModule     LogModule = "file"
	ErrsModule     LogModule = "errs"
	TlgModule      LogModule = "tlg"
	DispatchModule LogModule = "dispatch"
	SessionModule  LogModule = "session"
	ExportModule   LogModule = "export"
	UpdatesModule  LogModule = "updates"
)

func GetLogger(module LogModule) *logrus.Entry {
	return logrus.WithField("module", module)
}

func Setup(level string) {
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse log level %s. using default ...", level)
		return
	}
	logrus.Infof("setting log level to %s", ll)
	logrus.SetLevel(ll)
}
