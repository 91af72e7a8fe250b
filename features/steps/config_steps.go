//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/cmd"
	"audio-extractor/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	output     bytes.Buffer
	err        error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		os.RemoveAll(SharedConfigContext.tempDir)
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^a config file with:$`, aConfigFileWith)
	ctx.Step(`^I run config set "([^"]*)" "([^"]*)"$`, iRunConfigSet)
	ctx.Step(`^I run config get "([^"]*)"$`, iRunConfigGet)
	ctx.Step(`^I run config show$`, iRunConfigShow)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the config file should have "([^"]*)" set to "([^"]*)"$`, theConfigFileShouldHave)
}

func aConfigFileWith(doc *godog.DocString) error {
	c := SharedConfigContext
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func (c *configContext) load() (*config.Config, bool, error) {
	return config.LoadOrDefault(c.configPath)
}

func iRunConfigSet(key, value string) error {
	c := SharedConfigContext
	cfg, _, err := c.load()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, &c.output)
	return nil
}

func iRunConfigGet(key string) error {
	c := SharedConfigContext
	cfg, _, err := c.load()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigGetWithDependencies(cfg, c.configPath, key, &c.output)
	return nil
}

func iRunConfigShow() error {
	c := SharedConfigContext
	cfg, found, err := c.load()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigShowWithDependencies(cfg, c.configPath, found, false, &c.output)
	return nil
}

func theCommandShouldSucceed() error {
	if err := SharedConfigContext.err; err != nil {
		return fmt.Errorf("expected success, got: %w", err)
	}
	return nil
}

func theCommandShouldFailWith(text string) error {
	err := SharedConfigContext.err
	if err == nil {
		return fmt.Errorf("expected failure containing %q", text)
	}
	if !strings.Contains(err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, err.Error())
	}
	return nil
}

func theOutputShouldContain(text string) error {
	out := SharedConfigContext.output.String()
	if !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}

func theConfigFileShouldHave(key, want string) error {
	c := SharedConfigContext
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	got, err := config.NewConfigManager(cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s to be %q, got %q", key, want, got)
	}
	return nil
}
