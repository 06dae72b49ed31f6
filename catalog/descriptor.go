package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/arloliu/superblob/errs"
	"github.com/arloliu/superblob/format"
)

// descriptor captures the settings that affect how rows are encoded. It is
// written on first open and wins over the options of every later open.
type descriptor struct {
	FormatVersion    format.Version `json:"format_version"`
	ValueCompression string         `json:"value_compression"`
}

func newDescriptor(cfg *config) descriptor {
	return descriptor{
		FormatVersion:    format.CurrentVersion,
		ValueCompression: cfg.compression.String(),
	}
}

func (d descriptor) compression() (format.CompressionType, error) {
	c, ok := format.ParseCompressionType(d.ValueCompression)
	if !ok {
		return 0, fmt.Errorf("%w: value compression %q", errs.ErrInvalidDescriptor, d.ValueCompression)
	}

	return c, nil
}

func (d descriptor) marshal() ([]byte, error) {
	return json.Marshal(d)
}

func parseDescriptor(data []byte) (descriptor, error) {
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return descriptor{}, fmt.Errorf("%w: %w", errs.ErrInvalidDescriptor, err)
	}

	if !d.FormatVersion.IsSupported() {
		return descriptor{}, fmt.Errorf("%w: catalog format version %d", errs.ErrUnsupportedVersion, d.FormatVersion)
	}

	if _, err := d.compression(); err != nil {
		return descriptor{}, err
	}

	return d, nil
}
