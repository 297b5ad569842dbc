package repository

import "github.com/sirupsen/logrus"

// newLogger - логгер репозитория, уровень берется из глобального (LOG_LEVEL)
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())
	return logger
}

const dateFormat = "2006-01-02"
