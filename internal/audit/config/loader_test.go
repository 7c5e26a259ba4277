package config

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privsweep/privsweep/internal/common"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Config
		wantErr error
	}{
		{
			name: "full config",
			content: `root: /usr/local
monitor_duration: 30
dry_run: true
poll_interval_ms: 200
`,
			want: Config{Root: "/usr/local", MonitorDuration: 30, DryRun: true, PollIntervalMS: 200},
		},
		{
			name:    "partial config gets defaults",
			content: "dry_run: true\n",
			want:    Config{Root: DefaultRoot, MonitorDuration: DefaultMonitorDuration, DryRun: true, PollIntervalMS: DefaultPollIntervalMS},
		},
		{
			name:    "empty file gets full defaults",
			content: "",
			want:    Config{Root: DefaultRoot, MonitorDuration: DefaultMonitorDuration, PollIntervalMS: DefaultPollIntervalMS},
		},
		{
			name:    "non-positive duration rejected",
			content: "monitor_duration: -10\n",
			wantErr: ErrNonPositiveDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	// A typo must not silently fall back to defaults; dry_ran instead of
	// dry_run would otherwise turn a dry run into a mutating one.
	_, err := Parse([]byte("dry_ran: true\n"))
	assert.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("root: [unclosed\n"))
	assert.Error(t, err)
}

func TestLoaderLoad(t *testing.T) {
	fsys := common.NewMockFileSystem()
	fsys.FileContents["/etc/privsweep/config.yaml"] = []byte("root: /usr\nmonitor_duration: 10\n")

	cfg, err := NewLoaderWithFS(fsys).Load("/etc/privsweep/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/usr", cfg.Root)
	assert.Equal(t, 10, cfg.MonitorDuration)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoaderWithFS(common.NewMockFileSystem()).Load("/nonexistent.yaml")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoaderEmptyPath(t *testing.T) {
	_, err := NewLoader().Load("")
	assert.ErrorIs(t, err, ErrInvalidConfigPath)
}
