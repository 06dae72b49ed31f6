package catalog

import (
	"fmt"
	"math"

	"github.com/arloliu/superblob/endian"
	"github.com/arloliu/superblob/errs"
)

const (
	rowPrefix  byte = 'r'
	metaPrefix byte = 'm'

	// rowKeySize is prefix | id_from u32 | id_to u32 | seq u64.
	rowKeySize = 1 + 4 + 4 + 8
)

var (
	seqKey  = []byte{metaPrefix, 's', 'e', 'q'}
	descKey = []byte{metaPrefix, 'd', 'e', 's', 'c'}
)

// Row identifies one catalog row: the closed blob id interval it covers and
// the insertion sequence that keeps repeated intervals distinct.
type Row struct {
	IDFrom uint32
	IDTo   uint32
	Seq    uint64
}

// Contains reports whether blobID lies within [IDFrom, IDTo].
func (r Row) Contains(blobID uint32) bool {
	return r.IDFrom <= blobID && blobID <= r.IDTo
}

func (r Row) String() string {
	return fmt.Sprintf("[%d, %d]#%d", r.IDFrom, r.IDTo, r.Seq)
}

// key encodes the row as a big-endian key so that byte-wise order equals
// (IDFrom, IDTo, Seq) order.
func (r Row) key() []byte {
	engine := endian.KeyEngine()

	k := make([]byte, 0, rowKeySize)
	k = append(k, rowPrefix)
	k = engine.AppendUint32(k, r.IDFrom)
	k = engine.AppendUint32(k, r.IDTo)

	return engine.AppendUint64(k, r.Seq)
}

func parseRowKey(k []byte) (Row, error) {
	if len(k) != rowKeySize || k[0] != rowPrefix {
		return Row{}, fmt.Errorf("%w: %x", errs.ErrInvalidRowKey, k)
	}

	engine := endian.KeyEngine()
	r := Row{
		IDFrom: engine.Uint32(k[1:5]),
		IDTo:   engine.Uint32(k[5:9]),
		Seq:    engine.Uint64(k[9:17]),
	}
	if r.IDFrom > r.IDTo {
		return Row{}, fmt.Errorf("%w: inverted range %s", errs.ErrInvalidRowKey, r)
	}

	return r, nil
}

// rowBounds returns the cursor bounds of all rows whose IDFrom is at most
// maxFrom.
func rowBounds(maxFrom uint32) (lower, upper []byte) {
	lower = []byte{rowPrefix}
	if maxFrom == math.MaxUint32 {
		return lower, []byte{rowPrefix + 1}
	}

	return lower, endian.KeyEngine().AppendUint32([]byte{rowPrefix}, maxFrom+1)
}

// allRowBounds returns the cursor bounds of every row.
func allRowBounds() (lower, upper []byte) {
	return rowBounds(math.MaxUint32)
}

func encodeSeq(seq uint64) []byte {
	return endian.WireEngine().AppendUint64(nil, seq)
}

func decodeSeq(v []byte) (uint64, error) {
	if len(v) != 8 {
		return 0, fmt.Errorf("%w: sequence record has %d bytes", errs.ErrTruncated, len(v))
	}

	return endian.WireEngine().Uint64(v), nil
}
