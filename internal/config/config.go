package config

import (
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var lock = &sync.Mutex{}
var runtimeInstance *RuntimeType

// Runtime returns a singleton instance of RuntimeType, loading environment
// variables from a .env file if present. It uses sync.Mutex to ensure
// thread-safe initialization and parses environment variables into the
// RuntimeType struct.
func Runtime() *RuntimeType {
	if runtimeInstance == nil {
		lock.Lock()
		defer lock.Unlock()
		if _, error := os.Stat(".env"); !os.IsNotExist(error) {
			logrus.Info("found .env file")
			if err := godotenv.Load(); err != nil {
				logrus.WithError(err).Fatal("can not load .env file")
			}
		}
		runtimeInstance = &RuntimeType{}
		if err := env.Parse(runtimeInstance); err != nil {
			panic(err)
		}
	}
	return runtimeInstance
}
