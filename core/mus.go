package core

import (
	"time"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types stored in the corpus. These are
// hand-maintained; the field order is part of the on-disk format and must not
// change without a migration.

var (
	// IDMUS serializes IDs as varint-encoded uint64.
	IDMUS = idMUS{}

	// RecordMUS serializes Records.
	RecordMUS = recordMUS{}

	// AnalysisMUS serializes Analyses.
	AnalysisMUS = analysisMUS{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

var (
	_ mus.Serializer[ID]       = IDMUS
	_ mus.Serializer[Record]   = RecordMUS
	_ mus.Serializer[Analysis] = AnalysisMUS
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// Timestamps are stored as microseconds since the Unix epoch.

func marshalTime(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (v time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func skipTime(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

type recordMUS struct{}

func (recordMUS) Marshal(v Record, bs []byte) (n int) {
	n = ord.String.Marshal(v.ExternalID, bs)
	n += ord.String.Marshal(v.ContainerID, bs[n:])
	n += ord.String.Marshal(v.AuthorID, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += marshalTime(v.Timestamp, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (recordMUS) Unmarshal(bs []byte) (v Record, n int, err error) {
	var n1 int
	if v.ExternalID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.ContainerID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.AuthorID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Timestamp, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	// An absent vector round-trips as nil, the "not embedded" form.
	if len(v.Vector) == 0 {
		v.Vector = nil
	}
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (recordMUS) Size(v Record) (size int) {
	size = ord.String.Size(v.ExternalID)
	size += ord.String.Size(v.ContainerID)
	size += ord.String.Size(v.AuthorID)
	size += ord.String.Size(v.Text)
	size += sizeTime(v.Timestamp)
	size += vectorMUS.Size(v.Vector)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

func (recordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 4; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = skipTime(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = vectorMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	for i := 0; i < 2; i++ {
		if n1, err = skipTime(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type analysisMUS struct{}

func (analysisMUS) Marshal(v Analysis, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Kind, bs[n:])
	n += ord.String.Marshal(v.Prompt, bs[n:])
	n += ord.String.Marshal(v.Result, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (analysisMUS) Unmarshal(bs []byte) (v Analysis, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Kind, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Prompt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Result, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Model, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (analysisMUS) Size(v Analysis) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Kind)
	size += ord.String.Size(v.Prompt)
	size += ord.String.Size(v.Result)
	size += ord.String.Size(v.Model)
	size += sizeTime(v.CreatedAt)
	return size
}

func (analysisMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return n, err
	}
	for i := 0; i < 4; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = skipTime(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	return n, nil
}
