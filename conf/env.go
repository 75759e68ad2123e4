package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	PolicyPath  string
	HTTPAddr    string
	CORSOrigins []string
	LogLevel    string
}

// LoadEnv reads .env if present and then the process environment.
func LoadEnv() (Env, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, fmt.Errorf("error loading .env file: %w", err)
	}
	return EnvFromOS(), nil
}

func EnvFromOS() Env {
	env := Env{
		PolicyPath: os.Getenv("GRADER_POLICY"),
		HTTPAddr:   os.Getenv("GRADER_HTTP_ADDR"),
		LogLevel:   os.Getenv("GRADER_LOG_LEVEL"),
	}
	if env.HTTPAddr == "" {
		env.HTTPAddr = ":8080"
	}
	if env.LogLevel == "" {
		env.LogLevel = "info"
	}
	if origins := os.Getenv("GRADER_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	} else {
		env.CORSOrigins = []string{"http://localhost:3000"}
	}
	return env
}
