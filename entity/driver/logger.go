package driver

import "github.com/sirupsen/logrus"

// log 驾驶员模块的日志记录器
var log = logrus.WithField("module", "driver")
