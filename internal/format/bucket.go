package format

import (
	"fmt"
	"sort"

	"github.com/dhrdlicka/apisettool/internal/buf"
)

// HashBucket pairs a namespace hash with the namespace's table index.
type HashBucket struct {
	Hash  uint32
	Index int32
}

// SortBuckets orders buckets ascending by hash. Equal hashes keep their
// relative order so the loader's binary search sees a stable layout.
func SortBuckets(buckets []HashBucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Hash < buckets[j].Hash
	})
}

// EncodeBuckets writes buckets at offset in b.
func EncodeBuckets(b []byte, offset int, buckets []HashBucket) error {
	end, err := buf.CheckTable(len(b), offset, len(buckets), HashBucketSize)
	if err != nil {
		return fmt.Errorf("hash table: %w: %w", ErrTruncated, err)
	}
	w := fieldWriter{v: buf.NewView(b[offset:end]), what: "hash table"}
	for i, bk := range buckets {
		base := i * HashBucketSize
		w.u32(base+HBHashOffset, bk.Hash)
		w.i32(base+HBIndexOffset, bk.Index)
	}
	return w.err
}

// DecodeBuckets reads count buckets at offset in b.
func DecodeBuckets(b []byte, offset, count int32) ([]HashBucket, error) {
	t, err := table(b, "hash table", offset, count, HashBucketSize)
	if err != nil {
		return nil, err
	}
	r := fieldReader{v: t, what: "hash table"}
	out := make([]HashBucket, count)
	for i := range out {
		base := i * HashBucketSize
		out[i] = HashBucket{Hash: r.u32(base + HBHashOffset), Index: r.i32(base + HBIndexOffset)}
	}
	if r.err != nil {
		return nil, r.err
	}
	return out, nil
}
