// Package session stores onboarding conversation drafts in BoltDB. A draft
// is transient scratch state keyed by Telegram user id; it is discarded on
// completion or cancellation and expires after a TTL so an abandoned
// conversation does not linger indefinitely.
package session

import (
	"encoding/json"
	"strconv"
	"time"

	bolt "github.com/boltdb/bolt"
)

var db *bolt.DB

const bucketDrafts = "drafts"

// DraftTTL is how long an untouched draft stays readable.
const DraftTTL = time.Hour

// State identifies the onboarding step awaiting user input.
type State string

const (
	StateAskName       State = "ask_name"
	StateAskBirthdate  State = "ask_birthdate"
	StateAskBirthtime  State = "ask_birthtime"
	StateAskBirthplace State = "ask_birthplace"
)

// Draft holds the field values collected so far in one conversation.
type Draft struct {
	State      State  `json:"state"`
	Name       string `json:"name"`
	Birthdate  string `json:"birthdate"`
	Birthtime  string `json:"birthtime"`
	Birthplace string `json:"birthplace"`
	UpdatedAt  int64  `json:"updated_at"`
}

// Init opens the database file and creates the bucket if needed.
func Init(path string) error {
	var err error
	db, err = bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDrafts))
		return err
	})
}

// Close releases the database file.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func key(userID int64) []byte {
	return []byte(strconv.FormatInt(userID, 10))
}

// Put stores the draft for the user, stamping its update time.
func Put(userID int64, d *Draft) error {
	d.UpdatedAt = time.Now().Unix()
	return putRaw(userID, d)
}

func putRaw(userID int64, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDrafts))
		return b.Put(key(userID), data)
	})
}

// Get returns the user's draft, or nil when none exists. An expired draft
// reads as absent and is removed.
func Get(userID int64) (*Draft, error) {
	var raw []byte
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDrafts))
		if v := b.Get(key(userID)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if time.Since(time.Unix(d.UpdatedAt, 0)) > DraftTTL {
		if err := Delete(userID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &d, nil
}

// Delete discards the user's draft, if any.
func Delete(userID int64) error {
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDrafts))
		return b.Delete(key(userID))
	})
}
