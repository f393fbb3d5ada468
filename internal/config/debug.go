package config

import "os"

func IsDebug() bool {
	return os.Getenv("BLOOM_DEBUG") == "1"
}
