package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for every record the storage layer persists. Written by
// hand against the mus-go primitives; field order is the wire format and
// must not change without a data migration. Timestamps are stored as Unix
// microseconds.

var (
	// IDMUS serializes an ID.
	IDMUS = idMUS{}
	// CorpusItemMUS serializes a CorpusItem.
	CorpusItemMUS = corpusItemMUS{}
	// UserMUS serializes a User.
	UserMUS = userMUS{}
	// SessionMUS serializes a Session.
	SessionMUS = sessionMUS{}
	// ConversationTurnMUS serializes a ConversationTurn.
	ConversationTurnMUS = conversationTurnMUS{}
	// SavedCitationMUS serializes a SavedCitation.
	SavedCitationMUS = savedCitationMUS{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
	timeMUS   = raw.TimeUnixMicro
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type corpusItemMUS struct{}

func (s corpusItemMUS) Marshal(v CorpusItem, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(int(v.Kind), bs[n:])
	n += ord.String.Marshal(v.Reference, bs[n:])
	n += ord.String.Marshal(v.School, bs[n:])
	n += ord.String.Marshal(v.PrimaryText, bs[n:])
	n += ord.String.Marshal(v.Translation, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (s corpusItemMUS) Unmarshal(bs []byte) (v CorpusItem, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	var kind int
	if kind, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Kind = CorpusKind(kind)
	n += n1
	if v.Reference, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.School, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PrimaryText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Translation, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (s corpusItemMUS) Size(v CorpusItem) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(int(v.Kind))
	size += ord.String.Size(v.Reference)
	size += ord.String.Size(v.School)
	size += ord.String.Size(v.PrimaryText)
	size += ord.String.Size(v.Translation)
	size += vectorMUS.Size(v.Vector)
	size += timeMUS.Size(v.InsertedAt)
	size += timeMUS.Size(v.UpdatedAt)
	return size
}

type userMUS struct{}

func (s userMUS) Marshal(v User, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Email, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += varint.Int.Marshal(int(v.Tier), bs[n:])
	n += ord.String.Marshal(v.Locale, bs[n:])
	n += ord.String.Marshal(v.School, bs[n:])
	n += varint.Int.Marshal(v.UsageCount, bs[n:])
	n += varint.Int.Marshal(v.UsageLimit, bs[n:])
	n += timeMUS.Marshal(v.LastReset, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (s userMUS) Unmarshal(bs []byte) (v User, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Email, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var tier int
	if tier, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Tier = Tier(tier)
	n += n1
	if v.Locale, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.School, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UsageCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UsageLimit, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.LastReset, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (s userMUS) Size(v User) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Email)
	size += ord.String.Size(v.Name)
	size += varint.Int.Size(int(v.Tier))
	size += ord.String.Size(v.Locale)
	size += ord.String.Size(v.School)
	size += varint.Int.Size(v.UsageCount)
	size += varint.Int.Size(v.UsageLimit)
	size += timeMUS.Size(v.LastReset)
	size += timeMUS.Size(v.CreatedAt)
	size += timeMUS.Size(v.UpdatedAt)
	return size
}

type sessionMUS struct{}

func (s sessionMUS) Marshal(v Session, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.UserId, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (s sessionMUS) Unmarshal(bs []byte) (v Session, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.UserId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (s sessionMUS) Size(v Session) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.UserId)
	size += ord.String.Size(v.Title)
	size += timeMUS.Size(v.CreatedAt)
	return size
}

type conversationTurnMUS struct{}

func (s conversationTurnMUS) Marshal(v ConversationTurn, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.SessionId, bs[n:])
	n += IDMUS.Marshal(v.UserId, bs[n:])
	n += ord.String.Marshal(v.Query, bs[n:])
	n += ord.String.Marshal(v.Response, bs[n:])
	n += ord.String.Marshal(v.Locale, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (s conversationTurnMUS) Unmarshal(bs []byte) (v ConversationTurn, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.SessionId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UserId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Query, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Response, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Locale, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (s conversationTurnMUS) Size(v ConversationTurn) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.SessionId)
	size += IDMUS.Size(v.UserId)
	size += ord.String.Size(v.Query)
	size += ord.String.Size(v.Response)
	size += ord.String.Size(v.Locale)
	size += timeMUS.Size(v.CreatedAt)
	return size
}

type savedCitationMUS struct{}

func (s savedCitationMUS) Marshal(v SavedCitation, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.UserId, bs[n:])
	n += ord.String.Marshal(v.SourceType, bs[n:])
	n += ord.String.Marshal(v.SourceRef, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (s savedCitationMUS) Unmarshal(bs []byte) (v SavedCitation, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.UserId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SourceType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SourceRef, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	return v, n + n1, err
}

func (s savedCitationMUS) Size(v SavedCitation) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.UserId)
	size += ord.String.Size(v.SourceType)
	size += ord.String.Size(v.SourceRef)
	size += ord.String.Size(v.Content)
	size += timeMUS.Size(v.CreatedAt)
	return size
}

// normalizeTime keeps round-tripped timestamps comparable with their inputs
// in tests: the codec stores microseconds, so nanosecond remainders are lost.
func normalizeTime(t time.Time) time.Time {
	return t.Truncate(time.Microsecond).UTC()
}
