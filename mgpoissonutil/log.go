/*
Copyright © 2018 the mgpoisson authors.
This file is part of mgpoisson.

mgpoisson is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mgpoisson is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mgpoisson.  If not, see <http://www.gnu.org/licenses/>.
*/

package mgpoissonutil

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
)

// newLogger returns a logger writing to out and, if logFile is not empty,
// to logFile as well. The returned function closes the log file.
func newLogger(out io.Writer, logFile, level string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("mgpoisson: invalid LogLevel: %v", err)
	}
	logger := logrus.New()
	logger.Level = lvl
	logger.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	logger.Out = out
	closeLog := func() error { return nil }
	if logFile != "" {
		logFile = os.ExpandEnv(logFile)
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("mgpoisson: problem creating log file: %v", err)
		}
		logger.Out = io.MultiWriter(out, f)
		closeLog = f.Close
	}
	return logger, closeLog, nil
}

// dumpConfig logs the resolved configuration at debug level.
func dumpConfig(logger logrus.FieldLogger, cfg interface{}) {
	logger.Debugf("configuration:\n%s", pretty.Sprint(cfg))
}
