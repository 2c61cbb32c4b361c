package image

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mrhapile/disktree/pkg/types"
)

// maxNesting bounds how deep archives inside archives are followed.
const maxNesting = 16

// maxNestedArchiveSize caps the compressed size of one embedded sub-volume
// archive. Each one is held in memory while it is read.
var maxNestedArchiveSize = int64(256 * datasize.MB)

var (
	// ErrNestingTooDeep is returned for archives nested beyond maxNesting levels.
	ErrNestingTooDeep = errors.New("archive nesting too deep")
	// ErrNestedArchiveTooLarge is returned for sub-volume members over maxNestedArchiveSize.
	ErrNestedArchiveTooLarge = errors.New("nested archive too large")
)

// OpenArchive reads a .tar.gz image. The volume id defaults to the file
// name without its extension.
func OpenArchive(p string) (*Snapshot, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open archive")
	}
	defer f.Close()

	id, _ := trimArchiveSuffix(filepath.Base(p))
	s, err := ReadArchive(f, id)
	if err != nil {
		return nil, errors.Wrapf(err, "archive %q", p)
	}
	return s, nil
}

// ReadArchive reads a gzip'd tar stream as a volume. Members keep their
// archive order; members that are archives themselves become sub-volumes.
func ReadArchive(r io.Reader, id string) (*Snapshot, error) {
	v, err := readVolume(r, id, 0)
	if err != nil {
		return nil, err
	}
	return newSnapshot(v), nil
}

func readVolume(r io.Reader, id string, depth int) (types.VolumeManifest, error) {
	if depth > maxNesting {
		return types.VolumeManifest{}, errors.Wrapf(ErrNestingTooDeep, "volume %q", id)
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return types.VolumeManifest{}, errors.Wrapf(err, "volume %q: failed to open gzip stream", id)
	}
	defer gz.Close()

	v := types.VolumeManifest{ID: id}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.VolumeManifest{}, errors.Wrapf(err, "volume %q: failed to read tar header", id)
		}

		name := strings.TrimPrefix(hdr.Name, "./")
		switch hdr.Typeflag {
		case tar.TypeXGlobalHeader:
			applyVolumeRecords(&v, hdr.PAXRecords)

		case tar.TypeDir:
			name = strings.TrimSuffix(name, "/")
			if name == "" || name == "." {
				continue
			}
			v.Entries = append(v.Entries, types.EntryManifest{Path: name, Dir: true})

		case tar.TypeReg, tar.TypeRegA: //nolint:staticcheck // old archivers still write TypeRegA
			// Marked members must be volumes. Unmarked ones with an archive
			// name are tried and kept as plain files when they don't read.
			_, marked := hdr.PAXRecords[paxSubVolume]
			if marked || isArchiveName(name) {
				sub, err := readNested(tr, hdr, depth)
				if err == nil {
					v.Volumes = append(v.Volumes, sub)
					continue
				}
				if marked {
					return types.VolumeManifest{}, errors.Wrapf(err, "volume %q", id)
				}
				log.Debug().
					Err(err).
					Str("volume", id).
					Str("member", name).
					Msg("archive-named member is not a volume, keeping it as a file")
			}
			v.Entries = append(v.Entries, types.EntryManifest{Path: name, Size: hdr.Size})

		default:
			log.Debug().
				Str("volume", id).
				Str("member", hdr.Name).
				Str("type", string(hdr.Typeflag)).
				Msg("skipping archive member")
		}
	}
	return v, nil
}

// readNested reads the sub-volume archive held by the current member.
func readNested(r io.Reader, hdr *tar.Header, depth int) (types.VolumeManifest, error) {
	if hdr.Size > maxNestedArchiveSize {
		return types.VolumeManifest{}, errors.Wrapf(ErrNestedArchiveTooLarge, "%s is %s, limit %s",
			hdr.Name, datasize.ByteSize(hdr.Size).HR(), datasize.ByteSize(maxNestedArchiveSize).HR())
	}
	b, err := io.ReadAll(io.LimitReader(r, maxNestedArchiveSize+1))
	if err != nil {
		return types.VolumeManifest{}, errors.Wrapf(err, "failed to read %s", hdr.Name)
	}
	if int64(len(b)) > maxNestedArchiveSize {
		return types.VolumeManifest{}, errors.Wrapf(ErrNestedArchiveTooLarge, "%s", hdr.Name)
	}

	subID, _ := trimArchiveSuffix(path.Base(strings.TrimPrefix(hdr.Name, "./")))
	return readVolume(bytes.NewReader(b), subID, depth+1)
}

func applyVolumeRecords(v *types.VolumeManifest, records map[string]string) {
	if id, ok := records[paxVolumeID]; ok {
		v.ID = id
	}
	if ro, ok := records[paxReadOnly]; ok {
		v.ReadOnly, _ = strconv.ParseBool(ro)
	}
	if sep, ok := records[paxSeparator]; ok {
		v.Separator = sep
	}
}
