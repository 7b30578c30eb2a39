package log

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("INFO") })

	cases := map[string]logrus.Level{
		"DEBUG":   logrus.DebugLevel,
		"debug":   logrus.DebugLevel,
		"WARN":    logrus.WarnLevel,
		"ERROR":   logrus.ErrorLevel,
		"INFO":    logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for name, want := range cases {
		SetLevel(name)
		if got := GetLogger().GetLevel(); got != want {
			t.Errorf("SetLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
