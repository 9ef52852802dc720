package table

import (
	"io"

	"github.com/sirupsen/logrus"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}
