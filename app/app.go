package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	cfgName     = "application"
	testCfgName = "application_test"
	envPrefix   = "POS"
)

var (
	cfg  *viper.Viper
	once sync.Once
)

// Config loads the application configuration.
//
// Rules:
//  1. A .env file in the working directory, if any, is loaded into the process environment.
//  2. application_test.yml is preferred when present or when running under `go test`,
//     otherwise application.yml is used.
//  3. It searches the project root, the working directory and their ./config folders.
//  4. Any key can be overridden by an environment variable prefixed with POS_,
//     e.g. POS_SERVER_ADDR for server.addr.
func Config() mo.Result[*viper.Viper] {
	once.Do(func() {
		_ = godotenv.Load()
		cfg, _ = loadViper(false)
	})
	return lo.If(cfg == nil, mo.Err[*viper.Viper](fmt.Errorf("can not find application.yml"))).Else(mo.Ok(cfg))
}

func loadViper(required bool) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	addDefaultConfigPaths(v)

	name := cfgName
	cwd, _ := os.Getwd()

	tryRead := func(cand string) bool {
		if _, err := os.Stat(cand); err == nil {
			v.SetConfigFile(cand)
			if err := v.ReadInConfig(); err == nil {
				return true
			}
		}
		return false
	}

	candidates := []string{}
	if root, ok := findProjectRoot(cwd); ok {
		candidates = append(candidates,
			filepath.Join(root, testCfgName+".yml"),
			filepath.Join(root, "config", testCfgName+".yml"))
	}
	candidates = append(candidates,
		filepath.Join(cwd, testCfgName+".yml"),
		filepath.Join(cwd, "config", testCfgName+".yml"))
	if isTestProcess() {
		for _, cand := range candidates {
			if tryRead(cand) {
				return v, nil
			}
		}
		name = testCfgName
	}
	v.SetConfigName(name)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !required && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return v, nil
}

// addDefaultConfigPaths registers the project root (nearest go.mod) and the working directory,
// each with its "config" subdir. Viper resolves relative paths against the working directory,
// which differs between `go test`, IDE runs and a deployed binary.
func addDefaultConfigPaths(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		return
	}

	if root, ok := findProjectRoot(cwd); ok {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}

	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))
}

// findProjectRoot walks upward from `start` until it finds a directory containing a go.mod.
func findProjectRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// isTestProcess detects whether we are running under `go test`.
func isTestProcess() bool {
	for _, a := range os.Args {
		if strings.HasPrefix(a, "-test.") {
			return true
		}
	}

	const maxFrames = 256
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if strings.HasSuffix(f.File, "_test.go") {
			return true
		}
		if !more {
			break
		}
	}

	return false
}
