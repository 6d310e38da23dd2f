package catalog

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"
	"runtime"
	"sync"

	"github.com/2x3systems/ptk/ptk"
	"github.com/2x3systems/ptk/ptkgraph"
	"github.com/dgraph-io/badger/v3"
	proto "github.com/gogo/protobuf/proto"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	kStatesPrefix, Level (u32), M1, M2, W1, W2 (i32)   => StateRecord
	...

	kDocumentsPrefix, blake3 digest                      => zstd(raw document)
	...

Quantum numbers are written big-endian, with the sign bit of each int32 flipped,
so that a plain key walk visits states in the same order EnumerateStates emits them.

***/

const (
	kStatesPrefix    = byte(0x01)
	kDocumentsPrefix = byte(0x02)

	stateKeySz  = 1 + 5*4
	digestSz    = 32
	majorVersID = 2025
	minorVersID = 1
)

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

// catalog is a db wrapper for a ptk state catalog
type catalog struct {
	ctx        ptk.CatalogContext
	readOnly   bool
	mu         sync.Mutex
	stateDirty bool
	state      CatalogState
	dbMu       sync.RWMutex // guards db; held for reading for the duration of each db op
	db         *badger.DB
}

// OpenCatalog opens (or creates) the catalog at opts.DbPathName and attaches it to ctx.
func OpenCatalog(ctx ptk.CatalogContext, opts ptk.CatalogOpts) (ptk.Catalog, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, errors.Wrap(ptk.ErrBadCatalogParam, err.Error())
	}

	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(ptk.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %q", opts.DbPathName)
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		if cat.readOnly {
			err = errors.Wrap(ptk.ErrBadCatalogParam, "read-only catalog has no header")
		}
		catID := uuid.New()
		cat.stateDirty = true
		cat.state = CatalogState{
			MajorVers: majorVersID,
			MinorVers: minorVersID,
			CatalogID: catID[:],
			Params:    paramsToRecord(&opts.Params),
			NumStates: make(map[uint32]uint64),
		}
	}

	if err == nil {
		if cat.state.MajorVers != majorVersID || cat.state.MinorVers != minorVersID {
			err = errors.Wrapf(ptk.ErrCatalogVersion, "found v%d.%d", cat.state.MajorVers, cat.state.MinorVers)
		} else if cat.Params() != opts.Params {
			err = errors.Wrapf(ptk.ErrParamsMismatch, "catalog has %+v", cat.Params())
		}
	}

	if err != nil {
		cat.stateDirty = false
		cat.Close()
		return nil, err
	}

	if cat.state.NumStates == nil {
		cat.state.NumStates = make(map[uint32]uint64)
	}

	klog.V(2).Infof("opened catalog %v (path=%q, readOnly=%v)", cat.CatalogID(), opts.DbPathName, cat.readOnly)
	return cat, nil
}

// CatalogID returns the uuid assigned to this catalog when it was created.
func (cat *catalog) CatalogID() uuid.UUID {
	id, _ := uuid.FromBytes(cat.state.CatalogID)
	return id
}

func (cat *catalog) Params() ptk.Params {
	return cat.state.Params.Params()
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumStates(level uint32) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return int64(cat.state.NumStates[level])
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return proto.Unmarshal(val, &cat.state)
			})
			if err != nil {
				err = errors.Wrap(ptk.ErrUnmarshal, err.Error())
			}
		}
		return err
	})
	return err
}

func (cat *catalog) flushState(db *badger.DB) error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if !cat.stateDirty {
		return nil
	}
	stateBuf, err := proto.Marshal(&cat.state)
	if err == nil {
		err = db.Update(func(txn *badger.Txn) error {
			return txn.Set(gCatalogStateKey, stateBuf)
		})
	}
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) Close() error {
	cat.dbMu.Lock()
	db := cat.db
	cat.db = nil
	cat.dbMu.Unlock()

	if db == nil {
		return nil
	}

	err := cat.flushState(db)
	if closeErr := db.Close(); err == nil {
		err = closeErr
	}
	klog.V(2).Infof("closed catalog %v", cat.CatalogID())

	cat.ctx.DetachCatalog(cat)
	return err
}

func appendOrderedInt32(key []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(key, uint32(v)^0x80000000)
}

func readOrderedInt32(key []byte) int32 {
	return int32(binary.BigEndian.Uint32(key) ^ 0x80000000)
}

func formStateKey(key []byte, s *ptk.StateSpec) []byte {
	key = append(key, kStatesPrefix)
	key = binary.BigEndian.AppendUint32(key, s.Level)
	key = appendOrderedInt32(key, s.M1)
	key = appendOrderedInt32(key, s.M2)
	key = appendOrderedInt32(key, s.W1)
	key = appendOrderedInt32(key, s.W2)
	return key
}

func readStateKey(key []byte, s *ptk.StateSpec) error {
	if len(key) != stateKeySz || key[0] != kStatesPrefix {
		return errors.Wrapf(ptk.ErrUnmarshal, "bad state key %x", key)
	}
	s.Level = binary.BigEndian.Uint32(key[1:5])
	s.M1 = readOrderedInt32(key[5:9])
	s.M2 = readOrderedInt32(key[9:13])
	s.W1 = readOrderedInt32(key[13:17])
	s.W2 = readOrderedInt32(key[17:21])
	return nil
}

// TryAddState adds the given state if its quantum numbers are not already present.
//
// If true is returned, s was not present and was added.
func (cat *catalog) TryAddState(s ptk.StateSpec) bool {
	if cat.readOnly {
		return false
	}

	cat.dbMu.RLock()
	defer cat.dbMu.RUnlock()
	if cat.db == nil {
		return false
	}

	var keyBuf [stateKeySz]byte
	stateKey := formStateKey(keyBuf[:0], &s)

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(stateKey)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	val, err := proto.Marshal(&StateRecord{Mass: s.Mass, Q: s.Q})
	if err == nil {
		// Can't use the stack for commit bufs
		err = txn.Set(append([]byte{}, stateKey...), val)
	}
	if err == nil {
		err = txn.Commit()
	}
	if err != nil {
		panic(err)
	}

	cat.mu.Lock()
	cat.state.NumStates[s.Level]++
	cat.stateDirty = true
	cat.mu.Unlock()

	return true
}

// Select sends each state meeting sel to onHit, in enumeration order.
// Nothing is sent once the catalog is closed.
func (cat *catalog) Select(sel ptk.StateSelector, onHit ptk.OnStateHit) {
	if sel.Levels.Len() == 0 {
		return
	}

	for _, s := range cat.selectStates(sel) {
		onHit <- s
	}
}

// selectStates gathers the hits under dbMu so that onHit consumers never block Close.
func (cat *catalog) selectStates(sel ptk.StateSelector) []ptk.StateSpec {
	cat.dbMu.RLock()
	defer cat.dbMu.RUnlock()
	if cat.db == nil {
		return nil
	}

	var hits []ptk.StateSpec

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
		Prefix:         []byte{kStatesPrefix},
	})
	defer it.Close()

	var seekBuf [5]byte
	seekKey := binary.BigEndian.AppendUint32(append(seekBuf[:0], kStatesPrefix), sel.Levels.First)

	for it.Seek(seekKey); it.Valid(); it.Next() {
		item := it.Item()

		var s ptk.StateSpec
		err := readStateKey(item.Key(), &s)
		if err != nil {
			panic(err)
		}

		// Stop when the level is over the max
		if s.Level > sel.Levels.Last {
			break
		}

		var rec StateRecord
		err = item.Value(func(val []byte) error {
			return proto.Unmarshal(val, &rec)
		})
		if err != nil {
			panic(errors.Wrap(ptk.ErrUnmarshal, err.Error()))
		}
		s.Mass = rec.Mass
		s.Q = rec.Q

		if sel.SelectsState(&s) {
			hits = append(hits, s)
		}
	}
	return hits
}

func formDocumentKey(digest string) ([]byte, error) {
	raw, err := hex.DecodeString(digest)
	if err != nil || len(raw) != digestSz {
		return nil, errors.Wrapf(ptk.ErrDocumentNotFound, "bad digest %q", digest)
	}
	return append([]byte{kDocumentsPrefix}, raw...), nil
}

// PutDocument archives the given raw document (compressed) and returns its digest.
// Archiving the same document again is a no-op.
func (cat *catalog) PutDocument(raw []byte) (string, error) {
	if cat.readOnly {
		return "", ptk.ErrReadOnly
	}

	digest := ptkgraph.Digest(raw)
	docKey, err := formDocumentKey(digest)
	if err != nil {
		return "", err
	}

	var compressed bytes.Buffer
	encoder, err := zstd.NewWriter(&compressed)
	if err != nil {
		return "", errors.Wrap(err, "creating zstd encoder")
	}
	if _, err = encoder.Write(raw); err != nil {
		encoder.Close()
		return "", errors.Wrap(err, "compressing")
	}
	if err = encoder.Close(); err != nil {
		return "", errors.Wrap(err, "closing encoder")
	}

	cat.dbMu.RLock()
	defer cat.dbMu.RUnlock()
	if cat.db == nil {
		return "", ptk.ErrCatalogClosed
	}

	added := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(docKey)
		if err == badger.ErrKeyNotFound {
			added = true
			return txn.Set(docKey, compressed.Bytes())
		}
		return err
	})
	if err != nil {
		return "", errors.Wrapf(err, "archiving document %s", digest)
	}

	if added {
		cat.mu.Lock()
		cat.state.NumDocuments++
		cat.stateDirty = true
		cat.mu.Unlock()
		klog.V(2).Infof("archived document %s (%d bytes, %d compressed)", digest, len(raw), compressed.Len())
	}
	return digest, nil
}

// GetDocument returns the raw document archived under the given digest.
func (cat *catalog) GetDocument(digest string) ([]byte, error) {
	docKey, err := formDocumentKey(digest)
	if err != nil {
		return nil, err
	}

	cat.dbMu.RLock()
	defer cat.dbMu.RUnlock()
	if cat.db == nil {
		return nil, ptk.ErrCatalogClosed
	}

	var raw []byte
	err = cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey)
		if err == badger.ErrKeyNotFound {
			return errors.Wrap(ptk.ErrDocumentNotFound, digest)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoder, err := zstd.NewReader(bytes.NewReader(val))
			if err != nil {
				return errors.Wrap(err, "creating zstd decoder")
			}
			defer decoder.Close()

			raw, err = io.ReadAll(decoder)
			return errors.Wrap(err, "decompressing")
		})
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}
