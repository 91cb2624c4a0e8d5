package prompt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/prompt"
	"github.com/goliatone/go-formwire/pkg/upload"
)

type scriptedDriver struct {
	inputs   []string
	selects  []int
	confirms []bool
	infos    []string
	asked    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		return "", errors.New("no scripted input left")
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	return answer, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	answer := d.selects[0]
	d.selects = d.selects[1:]
	return answer, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

type signupHost struct{}

func (signupHost) Fields() []field.Field {
	return []field.Field{
		field.Email("email").WithRules("required", "email"),
		field.Tabs("settings",
			field.Tab("prefs", "Preferences",
				field.Select("plan", "free", "pro").WithDefault("free"),
				field.Checkbox("newsletter"),
			),
			field.Tab("media", "Media",
				field.File("avatar").WithRules("mimes:png"),
			),
		),
	}
}

func TestFillRepromptsInvalidAnswers(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "me.png")
	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(good, []byte("\x89PNG"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o600))

	stager, err := upload.NewStager(filepath.Join(dir, "staging"))
	require.NoError(t, err)

	driver := &scriptedDriver{
		inputs:   []string{"nope", "jane@example.com", bad, good},
		selects:  []int{1},
		confirms: []bool{true},
	}
	c := component.New(signupHost{})

	filler := prompt.NewFiller(stager, prompt.WithDriver(driver))
	require.NoError(t, filler.Fill(context.Background(), c))

	require.Equal(t, "jane@example.com", c.Properties().String("email"))
	require.Equal(t, "pro", c.Properties().String("plan"))
	newsletter, _ := c.Get("newsletter")
	require.Equal(t, true, newsletter)

	staged, ok := c.TemporaryUploadedFile("avatar")
	require.True(t, ok)
	require.Equal(t, "me.png", staged.Name())
	require.True(t, stager.Owns(staged))
	require.True(t, c.Errors().IsEmpty())

	require.Equal(t, []string{
		"! The Email must be a valid email address.",
		"== Preferences ==",
		"== Media ==",
		"! The Avatar must be a file of type: png.",
	}, driver.infos)
}

func TestFillStopsAfterAttempts(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"", ""}}
	c := component.New(signupHost{})

	filler := prompt.NewFiller(nil, prompt.WithDriver(driver), prompt.WithAttempts(2))
	err := filler.Fill(context.Background(), c)
	require.ErrorIs(t, err, prompt.ErrTooManyAttempts)
	require.Len(t, driver.asked, 2)
}

func TestFillSkipsEmptyOptionalFile(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"jane@example.com", ""},
		selects:  []int{0},
		confirms: []bool{false},
	}
	c := component.New(signupHost{})

	require.NoError(t, prompt.NewFiller(nil, prompt.WithDriver(driver)).Fill(context.Background(), c))
	_, ok := c.TemporaryUploadedFile("avatar")
	require.False(t, ok)
}

func TestFillLogsRejectedFileRules(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "me.png")
	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(good, []byte("\x89PNG"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o600))

	stager, err := upload.NewStager(filepath.Join(dir, "staging"))
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	driver := &scriptedDriver{
		inputs:   []string{"jane@example.com", bad, good},
		selects:  []int{0},
		confirms: []bool{false},
	}
	filler := prompt.NewFiller(stager, prompt.WithDriver(driver), prompt.WithLogger(zap.New(core)))
	require.NoError(t, filler.Fill(context.Background(), component.New(signupHost{})))

	rejected := logs.FilterMessage("answer rejected").All()
	require.Len(t, rejected, 1)
	fields := rejected[0].ContextMap()
	require.Equal(t, "avatar", fields["field"])
	require.Equal(t, []interface{}{"mimes"}, fields["rules"])
}
