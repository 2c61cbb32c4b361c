package image

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/mrhapile/disktree/pkg/types"
)

// ManifestVersion is the only manifest layout understood so far.
const ManifestVersion = "v1"

// Format is the encoding of a manifest file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// fingerprinter hashes the ordered entry lists of a volume tree.
type fingerprinter struct {
	hashes []string
}

func (f *fingerprinter) addVolume(v types.VolumeManifest) {
	f.add("volume", v.ID, v.Separator, strconv.FormatBool(v.ReadOnly))
	for _, e := range v.Entries {
		f.add("entry", e.Path,
			strconv.FormatBool(e.Dir),
			strconv.FormatBool(e.VolumeDir),
			strconv.FormatInt(e.Size, 10))
	}
	for _, sub := range v.Volumes {
		f.addVolume(sub)
	}
	f.add("end")
}

func (f *fingerprinter) add(fields ...string) {
	h := sha256.New()
	for _, s := range fields {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	f.hashes = append(f.hashes, hex.EncodeToString(h.Sum(nil)))
}

func (f *fingerprinter) sum() string {
	hasher := sha256.New()
	for _, s := range f.hashes {
		hasher.Write([]byte(s))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// Fingerprint returns the SHA256 over every volume, entry and nesting level
// of v, in order. Two volumes with the same fingerprint produce the same tree.
func Fingerprint(v types.VolumeManifest) string {
	f := &fingerprinter{}
	f.addVolume(v)
	return f.sum()
}

// LoadManifest reads a manifest file. The format follows the extension.
func LoadManifest(path string) (*types.ImageManifest, error) {
	format, ok := formatFromPath(path)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "manifest %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open manifest")
	}
	defer f.Close()

	m, err := ParseManifest(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %q", path)
	}
	return m, nil
}

// ParseManifest decodes and validates a manifest and fills in its content hash.
func ParseManifest(r io.Reader, format Format) (*types.ImageManifest, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}

	m := &types.ImageManifest{}
	switch format {
	case FormatYAML:
		err = yaml.UnmarshalStrict(b, m)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(m)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s manifest", format)
	}

	if m.Version == "" {
		m.Version = ManifestVersion
	}
	if err := ValidateManifest(m); err != nil {
		return nil, err
	}
	m.ContentHash = Fingerprint(m.Volume)
	return m, nil
}

// EncodeManifest writes m in the given format.
func EncodeManifest(w io.Writer, m *types.ImageManifest, format Format) error {
	var (
		b   []byte
		err error
	)
	switch format {
	case FormatYAML:
		b, err = yaml.Marshal(m)
	case FormatJSON:
		b, err = json.MarshalIndent(m, "", "  ")
		b = append(b, '\n')
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s manifest", format)
	}
	_, err = w.Write(b)
	return err
}

// ValidateManifest reports every problem it finds, not just the first.
// Entry ordering is deliberately not checked here; that is the tree
// builder's call.
func ValidateManifest(m *types.ImageManifest) error {
	var result *multierror.Error
	if m.Version != ManifestVersion {
		result = multierror.Append(result, fmt.Errorf("unsupported manifest version %q", m.Version))
	}
	validateVolume(&result, m.Volume, "volume")
	return result.ErrorOrNil()
}

func validateVolume(result **multierror.Error, v types.VolumeManifest, where string) {
	if v.Separator != "" && utf8.RuneCountInString(v.Separator) != 1 {
		*result = multierror.Append(*result, fmt.Errorf("%s: separator %q must be a single character", where, v.Separator))
	}
	for i, e := range v.Entries {
		if e.Path == "" && !e.VolumeDir {
			*result = multierror.Append(*result, fmt.Errorf("%s: entry %d has no path", where, i))
		}
		if e.Size < 0 {
			*result = multierror.Append(*result, fmt.Errorf("%s: entry %d %q has negative size", where, i, e.Path))
		}
		if e.Dir && e.Size != 0 {
			*result = multierror.Append(*result, fmt.Errorf("%s: directory %q has a size", where, e.Path))
		}
	}
	for i, sub := range v.Volumes {
		validateVolume(result, sub, fmt.Sprintf("%s.volumes[%d]", where, i))
	}
}
