package cmd

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsset struct {
	id   int64
	name string
}

func (a fakeAsset) GetID() int64                  { return a.id }
func (a fakeAsset) GetName() string               { return a.name }
func (a fakeAsset) GetSize() int                  { return 1024 }
func (a fakeAsset) GetBrowserDownloadURL() string { return "https://example.com/" + a.name }

type fakeRelease struct {
	tag    string
	assets []string
}

func (r fakeRelease) GetID() int64              { return 1 }
func (r fakeRelease) GetTagName() string        { return r.tag }
func (r fakeRelease) GetDraft() bool            { return false }
func (r fakeRelease) GetPrerelease() bool       { return false }
func (r fakeRelease) GetPublishedAt() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
func (r fakeRelease) GetReleaseNotes() string   { return "bug fixes" }
func (r fakeRelease) GetName() string           { return r.tag }
func (r fakeRelease) GetURL() string            { return "https://example.com/releases/" + r.tag }

func (r fakeRelease) GetAssets() []selfupdate.SourceAsset {
	out := make([]selfupdate.SourceAsset, 0, len(r.assets))
	for i, name := range r.assets {
		out = append(out, fakeAsset{id: int64(i + 1), name: name})
	}
	return out
}

type fakeReleaseSource struct {
	releases  []fakeRelease
	listErr   error
	downloads atomic.Int32
}

func (s *fakeReleaseSource) ListReleases(context.Context, selfupdate.Repository) ([]selfupdate.SourceRelease, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]selfupdate.SourceRelease, 0, len(s.releases))
	for _, r := range s.releases {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeReleaseSource) DownloadReleaseAsset(context.Context, *selfupdate.Release, int64) (io.ReadCloser, error) {
	s.downloads.Add(1)
	return nil, errors.New("download refused")
}

func withUpdater(t *testing.T, src *fakeReleaseSource, current string, check bool) {
	t.Helper()
	prevUpdater, prevVersion, prevCheck := newUpdater, version, checkOnly
	newUpdater = func() (*selfupdate.Updater, error) {
		return selfupdate.NewUpdater(selfupdate.Config{Source: src, OS: "linux", Arch: "amd64"})
	}
	version, checkOnly = current, check
	t.Cleanup(func() { newUpdater, version, checkOnly = prevUpdater, prevVersion, prevCheck })
}

func TestRunUpdate(t *testing.T) {
	linux := []string{"reelscout_linux_amd64.tar.gz", "reelscout_darwin_arm64.tar.gz"}

	tests := []struct {
		name          string
		current       string
		check         bool
		source        *fakeReleaseSource
		wantErr       string
		wantDownloads int32
	}{
		{
			name:    "development build",
			current: "dev",
			source:  &fakeReleaseSource{},
			wantErr: "cannot update a development build",
		},
		{
			name:    "release listing fails",
			current: "1.2.0",
			source:  &fakeReleaseSource{listErr: errors.New("rate limited")},
			wantErr: "failed to check for updates",
		},
		{
			name:    "no asset for this platform",
			current: "1.2.0",
			source:  &fakeReleaseSource{releases: []fakeRelease{{tag: "v1.3.0", assets: []string{"reelscout_windows_amd64.zip"}}}},
			wantErr: "no release found for this platform",
		},
		{
			name:    "already up to date",
			current: "v1.3.0",
			source:  &fakeReleaseSource{releases: []fakeRelease{{tag: "v1.2.0", assets: linux}, {tag: "v1.3.0", assets: linux}}},
		},
		{
			name:    "check only reports the new version",
			current: "1.2.0",
			check:   true,
			source:  &fakeReleaseSource{releases: []fakeRelease{{tag: "v1.3.0", assets: linux}}},
		},
		{
			name:          "update downloads the asset",
			current:       "1.2.0",
			source:        &fakeReleaseSource{releases: []fakeRelease{{tag: "v1.3.0", assets: linux}}},
			wantErr:       "failed to update",
			wantDownloads: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withUpdater(t, tt.source, tt.current, tt.check)

			cmd := &cobra.Command{}
			cmd.SetContext(context.Background())
			err := runUpdate(cmd, nil)

			assert.Equal(t, tt.wantDownloads, tt.source.downloads.Load())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
