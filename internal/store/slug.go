package store

import (
	"github.com/speps/go-hashids/v2"
)

// Places get a short non-sequential public slug so URLs don't leak row counts.
const slugSalt = "whereto-places"

var slugCodec = newSlugCodec()

func newSlugCodec() *hashids.HashID {
	hd := hashids.NewData()
	hd.Salt = slugSalt
	hd.MinLength = 8
	h, err := hashids.NewWithData(hd)
	if err != nil {
		// Only possible with a malformed alphabet, which is compiled in.
		panic(err)
	}
	return h
}

// EncodeSlug derives the public slug for a place id.
func EncodeSlug(id int64) (string, error) {
	return slugCodec.EncodeInt64([]int64{id})
}

// DecodeSlug resolves a public slug back to a place id.
func DecodeSlug(slug string) (int64, error) {
	ids, err := slugCodec.DecodeInt64WithError(slug)
	if err != nil {
		return 0, ErrNotFound
	}
	if len(ids) != 1 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}
