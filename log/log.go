package log

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/YLonely/pinns"
	"github.com/YLonely/pinns/api/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type logItem struct {
	phase pinns.Phase
	ns    types.NamespaceType
}

var loggers = map[logItem]*logrus.Entry{}

// Logger returns the entry for phase and namespace, ns may be empty
func Logger(phase pinns.Phase, ns types.NamespaceType) *logrus.Entry {
	var ret *logrus.Entry
	item := logItem{
		phase: phase,
		ns:    ns,
	}
	if logger, exists := loggers[item]; !exists {
		fields := logrus.Fields{
			"phase": phase.String(),
		}
		if ns != "" {
			fields["namespace"] = ns
		}
		loggers[item] = logrus.WithFields(fields)
		ret = loggers[item]
	} else {
		ret = logger
	}
	return ret
}

func Raw() *logrus.Logger {
	return logrus.StandardLogger()
}

func WithInterface(entry *logrus.Entry, key string, value interface{}) *logrus.Entry {
	valueJSON, _ := json.Marshal(value)
	return entry.WithField(key, string(valueJSON))
}

// Levels accepted by SetLevel
var Levels = []string{"trace", "debug", "info", "warn", "error", "off"}

// SetLevel sets the level of the standard logger, "off" silences it
func SetLevel(level string) error {
	if level == "off" {
		logrus.SetOutput(ioutil.Discard)
		logrus.SetLevel(logrus.PanicLevel)
		return nil
	}
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level")
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(l)
	return nil
}
