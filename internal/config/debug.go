package config

import "os"

func IsDebug() bool {
	return os.Getenv("ATLAS_DEBUG") == "1"
}
