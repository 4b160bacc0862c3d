// SPDX-License-Identifier: ice License 1.0

package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Public API.

var (
	ErrMissingKey = errors.New("config key not found")
)

// Private API.

const (
	applicationYAML = "application.yaml"
	dotEnvLookups   = 5
)

//nolint:gochecknoinits // Because we load the configs once, for the whole runtime
func init() {
	loadFirstApplicationConfigFile()
	dotEnvPath := `.env`
	for range dotEnvLookups {
		if err := godotenv.Load(dotEnvPath); err == nil {
			break
		}
		dotEnvPath = fmt.Sprintf(`../%v`, dotEnvPath)
	}
}

func MustLoadFromKey(key string, cfg any) {
	if err := viper.UnmarshalKey(key, cfg); err != nil {
		log.Panic(errors.Wrapf(err, "failed to load config by key %q", key))
	}
}

// LoadFromKey is MustLoadFromKey for optional sections: it reports ErrMissingKey instead of leaving cfg silently zeroed.
func LoadFromKey(key string, cfg any) error {
	if !viper.IsSet(key) {
		return errors.Wrapf(ErrMissingKey, "%q", key)
	}

	return errors.Wrapf(viper.UnmarshalKey(key, cfg), "failed to load config by key %q", key)
}

func loadFirstApplicationConfigFile() {
	for _, f := range findAllApplicationConfigFiles() {
		viper.SetConfigFile(f)
		if err := viper.ReadInConfig(); err == nil {
			return
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Panic(err)
		}
	}

	log.Panic(errors.Errorf("could not find any %v files", applicationYAML))
}

func findAllApplicationConfigFiles() []string {
	var files []string
	var hints []string

	if p, err := os.Getwd(); err == nil {
		hints = append(hints, p)
	}
	if p, err := os.Executable(); err == nil {
		hints = append(hints, path.Dir(filepath.Join(p, "..")))
	}

	for _, dir := range hints {
		files = append(files, glob(filepath.Join(dir, ".testdata", applicationYAML))...)
		files = append(files, glob(filepath.Join(dir, applicationYAML))...)
	}
	//nolint:dogsled // Because those 3 blank identifiers are useless
	_, callerFile, _, _ := runtime.Caller(0)
	files = append(files, glob(filepath.Join(filepath.Dir(callerFile), "..", applicationYAML))...)
	files = append(files, glob(filepath.Join(filepath.Dir(callerFile), "..", "..", applicationYAML))...)

	return files
}

func glob(pattern string) []string {
	files, err := filepath.Glob(pattern)
	if err != nil {
		log.Println(errors.Wrapf(err, "glob failed for [%v]", pattern))
	}

	return files
}
