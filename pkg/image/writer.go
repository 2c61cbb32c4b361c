package image

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mrhapile/disktree/pkg/types"
)

// PAX records carried in the global header of every archive.
const (
	paxVolumeID  = "DISKTREE.id"
	paxReadOnly  = "DISKTREE.readonly"
	paxSeparator = "DISKTREE.separator"
)

// paxSubVolume marks a member that holds an embedded sub-volume archive, as
// opposed to a file that merely has an archive name.
const paxSubVolume = "DISKTREE.subvolume"

// WriteOption configures archive writing.
type WriteOption func(*writeConfig)

type writeConfig struct {
	ts   time.Time
	sort bool
}

// WithTimestamp sets the time stamped on every member, for deterministic output.
func WithTimestamp(t time.Time) WriteOption {
	return func(c *writeConfig) {
		c.ts = t
	}
}

// WithSortedEntries orders entries so that every directory is followed by
// its own contents, instead of keeping the manifest order.
func WithSortedEntries() WriteOption {
	return func(c *writeConfig) {
		c.sort = true
	}
}

// ArchiveWriter packs a volume description into a .tar.gz image. Nested
// volumes are embedded as archives of their own.
type ArchiveWriter struct {
	vol types.VolumeManifest
	cfg writeConfig
}

// NewArchiveWriter creates a new writer instance.
func NewArchiveWriter(vol types.VolumeManifest, opts ...WriteOption) *ArchiveWriter {
	cfg := writeConfig{ts: time.Unix(0, 0).UTC()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ArchiveWriter{vol: vol, cfg: cfg}
}

// WriteToDisk creates <volume id>.tar.gz in outputDir.
// It returns the absolute path to the created file and the total uncompressed size.
func (w *ArchiveWriter) WriteToDisk(outputDir string) (string, int64, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", 0, errors.Wrap(err, "failed to create output directory")
	}

	archivePath := filepath.Join(outputDir, archiveFileName(w.vol.ID, 0))
	absPath, err := filepath.Abs(archivePath)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to resolve absolute path")
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to create archive file")
	}
	defer f.Close()

	size, err := w.Encode(f)
	if err != nil {
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		return "", 0, errors.Wrap(err, "failed to close archive file")
	}

	log.Debug().Str("path", absPath).Int64("size", size).Msg("archive written")
	return absPath, size, nil
}

// Encode writes the archive to out and returns the total uncompressed size
// of the members.
func (w *ArchiveWriter) Encode(out io.Writer) (int64, error) {
	gw := gzip.NewWriter(out)
	tw := tar.NewWriter(gw)

	total, err := w.writeMembers(tw)
	if err != nil {
		return 0, err
	}
	if err := tw.Close(); err != nil {
		return 0, errors.Wrap(err, "failed to finish tar stream")
	}
	if err := gw.Close(); err != nil {
		return 0, errors.Wrap(err, "failed to finish gzip stream")
	}
	return total, nil
}

func (w *ArchiveWriter) writeMembers(tw *tar.Writer) (int64, error) {
	records := map[string]string{
		paxVolumeID: w.vol.ID,
		paxReadOnly: strconv.FormatBool(w.vol.ReadOnly),
	}
	if w.vol.Separator != "" {
		records[paxSeparator] = w.vol.Separator
	}
	if err := tw.WriteHeader(&tar.Header{Typeflag: tar.TypeXGlobalHeader, PAXRecords: records}); err != nil {
		return 0, errors.Wrapf(err, "failed to write volume header for %q", w.vol.ID)
	}

	entries := w.vol.Entries
	if w.cfg.sort {
		entries = sortedEntries(entries, w.vol.Separator)
	}

	var totalSize int64
	for _, e := range entries {
		if e.VolumeDir {
			// the global header stands in for the volume directory
			continue
		}

		header := &tar.Header{
			Name:       e.Path,
			Mode:       0644,
			ModTime:    w.cfg.ts,
			AccessTime: w.cfg.ts,
			ChangeTime: w.cfg.ts,
			Typeflag:   tar.TypeReg,
			Size:       e.Size,
		}
		if e.Dir {
			header.Name = e.Path + "/"
			header.Mode = 0755
			header.Typeflag = tar.TypeDir
			header.Size = 0
		}

		if err := tw.WriteHeader(header); err != nil {
			return 0, errors.Wrapf(err, "failed to write header for %s", e.Path)
		}
		if header.Size > 0 {
			if _, err := io.CopyN(tw, zeros{}, header.Size); err != nil {
				return 0, errors.Wrapf(err, "failed to write content for %s", e.Path)
			}
		}
		totalSize += header.Size
	}

	seen := map[string]bool{}
	for i, sub := range w.vol.Volumes {
		var buf bytes.Buffer
		if _, err := (&ArchiveWriter{vol: sub, cfg: w.cfg}).Encode(&buf); err != nil {
			return 0, errors.Wrapf(err, "sub-volume %q", sub.ID)
		}

		name := archiveFileName(sub.ID, i)
		if seen[name] {
			name = archiveFileName(fmt.Sprintf("%s-%d", sub.ID, i), i)
		}
		seen[name] = true

		header := &tar.Header{
			Name:       name,
			Mode:       0644,
			ModTime:    w.cfg.ts,
			AccessTime: w.cfg.ts,
			ChangeTime: w.cfg.ts,
			Typeflag:   tar.TypeReg,
			Size:       int64(buf.Len()),
			PAXRecords: map[string]string{paxSubVolume: "1"},
		}
		if err := tw.WriteHeader(header); err != nil {
			return 0, errors.Wrapf(err, "failed to write header for sub-volume %q", sub.ID)
		}
		if _, err := tw.Write(buf.Bytes()); err != nil {
			return 0, errors.Wrapf(err, "failed to write sub-volume %q", sub.ID)
		}
		totalSize += header.Size
	}

	return totalSize, nil
}

// WriteArchive packs the manifest's root volume into outputDir.
func WriteArchive(m *types.ImageManifest, outputDir string, opts ...WriteOption) (string, int64, error) {
	if err := ValidateManifest(m); err != nil {
		return "", 0, err
	}
	return NewArchiveWriter(m.Volume, opts...).WriteToDisk(outputDir)
}

// archiveFileName turns a volume id into a member or file name.
func archiveFileName(id string, index int) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, strings.TrimSpace(id))
	if name == "" || name == "." || name == ".." {
		name = fmt.Sprintf("volume-%d", index)
	}
	return name + ".tar.gz"
}

// sortedEntries orders entries segment by segment. A plain string sort is
// not enough: "A-B" sorts between "A" and "A/X" and would split A's contents.
func sortedEntries(entries []types.EntryManifest, sep string) []types.EntryManifest {
	if sep == "" {
		sep = "/"
	}
	out := append([]types.EntryManifest(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].VolumeDir != out[j].VolumeDir {
			return out[i].VolumeDir
		}
		a := strings.Split(strings.TrimSuffix(out[i].Path, sep), sep)
		b := strings.Split(strings.TrimSuffix(out[j].Path, sep), sep)
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return out
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
