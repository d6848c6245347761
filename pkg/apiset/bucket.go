package apiset

import "github.com/dhrdlicka/apisettool/internal/format"

// bucketBuilder collects one hash bucket per namespace in processing order.
type bucketBuilder struct {
	factor  int32
	buckets []format.HashBucket
}

func newBucketBuilder(factor int32, n int) *bucketBuilder {
	return &bucketBuilder{factor: factor, buckets: make([]format.HashBucket, 0, n)}
}

// add records the next namespace by its hashed name.
func (b *bucketBuilder) add(hashed string) {
	b.buckets = append(b.buckets, format.HashBucket{
		Hash:  Hash(hashed, b.factor),
		Index: int32(len(b.buckets)),
	})
}

// sorted returns the buckets ordered for the loader's binary search.
func (b *bucketBuilder) sorted() []format.HashBucket {
	format.SortBuckets(b.buckets)
	return b.buckets
}

// BuildBuckets returns the hash table both layouts write for s: one
// (hash, index) pair per namespace, indexed in iteration order and sorted
// ascending by hash with ties kept in index order.
func BuildBuckets(s *Schema) ([]format.HashBucket, error) {
	b := newBucketBuilder(s.HashFactor, s.Namespaces.Len())
	for name := range s.Namespaces.All() {
		hashed, err := HashedName(name)
		if err != nil {
			return nil, err
		}
		b.add(hashed)
	}
	return b.sorted(), nil
}
