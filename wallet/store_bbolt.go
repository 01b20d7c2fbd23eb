package wallet

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
)

var (
	nymsBucket     = []byte("nyms")
	serversBucket  = []byte("servers")
	assetsBucket   = []byte("assets")
	accountsBucket = []byte("accounts")
)

// BoltStore is the single-file wallet store described by spec §6's
// filesystem layout, backed by go.etcd.io/bbolt the same way the
// teacher's watchtower/wtdb client store is backed by bbolt.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (creating if absent) the wallet file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening wallet file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{nymsBucket, serversBucket, assetsBucket, accountsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("initializing wallet buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error { return s.db.Close() }

// nymRecord is the JSON-serializable projection of a Nym persisted to
// disk; the live notarytypes.Nym holds a *secp256k1.PrivateKey, which we
// serialize as raw bytes here rather than teach encoding/json about.
type nymRecord struct {
	ID         notarytypes.NymID
	Name       string
	PrivateKey []byte
	Servers    map[notarytypes.ServerID]*notarytypes.ServerNumbers
}

func (s *BoltStore) SaveNym(nym *notarytypes.Nym) error {
	rec := nymRecord{
		ID:      nym.ID,
		Name:    nym.Name,
		Servers: nym.Servers,
	}
	if nym.PrivateKey != nil {
		rec.PrivateKey = nym.PrivateKey.Serialize()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(nymsBucket).Put([]byte(nym.ID), data)
	})
}

func (s *BoltStore) LoadNym(id notarytypes.NymID) (*notarytypes.Nym, error) {
	var rec nymRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(nymsBucket).Get([]byte(id))
		if data == nil {
			return notaryerr.ErrNotFound
		}

		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}

	nym := &notarytypes.Nym{
		ID:      rec.ID,
		Name:    rec.Name,
		Servers: rec.Servers,
	}

	return nym, nil
}

func (s *BoltStore) DeleteNym(id notarytypes.NymID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(nymsBucket).Delete([]byte(id))
	})
}

func (s *BoltStore) SaveServerContract(c *notarytypes.ServerContract) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(serversBucket).Put([]byte(c.ID), data)
	})
}

func (s *BoltStore) SaveAssetContract(c *notarytypes.AssetContract) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(assetsBucket).Put([]byte(c.ID), data)
	})
}

func (s *BoltStore) SaveAccount(a *notarytypes.AssetAccount) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(accountsBucket).Put([]byte(a.ID), data)
	})
}

func (s *BoltStore) DeleteAccount(id notarytypes.AccountID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(accountsBucket).Delete([]byte(id))
	})
}
