package jsonconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions_Initial(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, DefaultSettings(), o.Settings)
	assert.True(t, o.CreateNew)
	assert.False(t, o.SaveNew)
	assert.True(t, o.CreateDirs)
	assert.Nil(t, o.Serializer)
	assert.Equal(t, ".json", o.serializer().Ext())
	assert.Equal(t, os.FileMode(0o644), o.fileMode())
	assert.IsType(t, OSFileSystem{}, o.fs())
}

func TestResolveOptions(t *testing.T) {
	explicit := &Options{SaveNew: true}
	bound := &Options{FileMode: 0o600}
	withDefaults(t, Options{Settings: Settings{Indent: "\t"}})

	tests := []struct {
		name     string
		explicit *Options
		bound    *Options
		typed    any
		want     Options
	}{
		{name: "explicit wins", explicit: explicit, bound: bound, typed: &custom{}, want: *explicit},
		{name: "bound before per-type", bound: bound, typed: &custom{}, want: *bound},
		{name: "per-type before global", typed: &custom{}, want: *(&custom{}).ConfigOptions()},
		{name: "global", typed: &AppSettings{}, want: Options{Settings: Settings{Indent: "\t"}}},
		{name: "nil per-type falls through", typed: &nilOptions{}, want: Options{Settings: Settings{Indent: "\t"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveOptions(tt.explicit, tt.bound, tt.typed))
		})
	}
}

type nilOptions struct {
	Base
}

func (*nilOptions) ConfigOptions() *Options { return nil }

func TestSave_FileMode(t *testing.T) {
	p := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, Save(&AppSettings{Name: "s"}, p, &Options{FileMode: 0o600}))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
