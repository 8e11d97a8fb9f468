package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/minbar-ai/minbar/core"
)

// Key prefixes for different data types
const (
	corpusPrefix     = "corit"
	corpusKindPrefix = "coritk"
	corpusOrdSeq     = "coritkseq"
	userPrefix       = "usrec"
	userEmailPrefix  = "usrem"
	userIDSeq        = "usrecseq"
	sessionPrefix    = "sesrec"
	sessionUserPrefix = "sesu"
	sessionIDSeq     = "sesrecseq"
	turnPrefix       = "trnrec"
	turnSessionPrefix = "trnses"
	turnUserPrefix   = "trnusr"
	turnIDSeq        = "trnrecseq"
	citationPrefix   = "citrec"
	citationUserPrefix = "citusr"
	citationIDSeq    = "citrecseq"
)

// makeCorpusKey generates a key for a corpus item by ID.
func makeCorpusKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", corpusPrefix, id))
}

// makeCorpusKindKey generates a composite key for the kind index.
// Format: prefix:kind:ordinal, where the ordinal is assigned once at first
// insert. BigEndian so lexicographic iteration follows canonical corpus
// order, which the ranker's stable sort relies on to break score ties.
func makeCorpusKindKey(kind core.CorpusKind, ord uint64) []byte {
	prefix := corpusKindPrefix + ":"
	buf := make([]byte, len(prefix)+9)
	offset := copy(buf, prefix)
	buf[offset] = byte(kind)
	offset++
	binary.BigEndian.PutUint64(buf[offset:], ord)
	return buf
}

// makePartialCorpusKindKey generates a partial key for kind scans.
func makePartialCorpusKindKey(kind core.CorpusKind) []byte {
	prefix := corpusKindPrefix + ":"
	buf := make([]byte, len(prefix)+1)
	offset := copy(buf, prefix)
	buf[offset] = byte(kind)
	return buf
}

// makeUserKey generates a key for a user by ID.
func makeUserKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", userPrefix, id))
}

// makeUserEmailKey generates a key for the email uniqueness index.
func makeUserEmailKey(email string) []byte {
	return []byte(userEmailPrefix + ":" + email)
}

// makeSessionKey generates a key for a session by ID.
func makeSessionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sessionPrefix, id))
}

// makeSessionUserKey generates a composite key for the session owner index.
// Format: prefix:userID:sessionID
func makeSessionUserKey(userID, sessionID core.ID) []byte {
	return makeCompositeKey(sessionUserPrefix, userID, sessionID)
}

// makePartialSessionUserKey generates a partial key for per-user session scans.
func makePartialSessionUserKey(userID core.ID) []byte {
	return makePartialCompositeKey(sessionUserPrefix, userID)
}

// makeTurnKey generates a key for a conversation turn by ID.
func makeTurnKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", turnPrefix, id))
}

// makeTurnSessionKey generates a composite key for the turn-by-session index.
// Format: prefix:sessionID:turnID
func makeTurnSessionKey(sessionID, turnID core.ID) []byte {
	return makeCompositeKey(turnSessionPrefix, sessionID, turnID)
}

// makePartialTurnSessionKey generates a partial key for per-session turn scans.
func makePartialTurnSessionKey(sessionID core.ID) []byte {
	return makePartialCompositeKey(turnSessionPrefix, sessionID)
}

// makeTurnUserKey generates a composite key for the turn-by-user index.
// Format: prefix:userID:turnID
func makeTurnUserKey(userID, turnID core.ID) []byte {
	return makeCompositeKey(turnUserPrefix, userID, turnID)
}

// makePartialTurnUserKey generates a partial key for per-user turn scans.
func makePartialTurnUserKey(userID core.ID) []byte {
	return makePartialCompositeKey(turnUserPrefix, userID)
}

// makeCitationKey generates a key for a saved citation by ID.
func makeCitationKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", citationPrefix, id))
}

// makeCitationUserKey generates a composite key for the citation owner index.
// Format: prefix:userID:citationID
func makeCitationUserKey(userID, citationID core.ID) []byte {
	return makeCompositeKey(citationUserPrefix, userID, citationID)
}

// makePartialCitationUserKey generates a partial key for per-user citation scans.
func makePartialCitationUserKey(userID core.ID) []byte {
	return makePartialCompositeKey(citationUserPrefix, userID)
}

// makeCompositeKey builds prefix:owner:id with BigEndian IDs so
// lexicographic iteration follows insertion order within one owner.
func makeCompositeKey(prefix string, owner, id core.ID) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+16)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialCompositeKey builds prefix:owner for per-owner range scans.
func makePartialCompositeKey(prefix string, owner core.ID) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+8)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	return buf
}
