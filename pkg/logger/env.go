package logger

import "os"

// EnvReader abstracts environment variable lookups so the logging
// configuration can be tested without mutating the process environment.
type EnvReader interface {
	Getenv(key string) string
}

// osEnv reads from the real process environment.
type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }
