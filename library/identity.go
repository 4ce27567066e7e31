package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

// Identity records whether a domain record has been persisted. The zero value
// is a new record; Existing wraps the primary key of a stored row.
type Identity struct {
	id        int64
	persisted bool
}

// Existing returns the identity of a stored row with primary key id.
func Existing(id int64) Identity { return Identity{id: id, persisted: true} }

// IsNew reports whether the record has never been saved.
func (i Identity) IsNew() bool { return !i.persisted }

// Int64 returns the primary key, or 0 for a new record.
func (i Identity) Int64() int64 { return i.id }

func (i Identity) String() string {
	if !i.persisted {
		return "new"
	}
	return strconv.FormatInt(i.id, 10)
}

func (i Identity) MarshalJSON() ([]byte, error) {
	if !i.persisted {
		return []byte("null"), nil
	}
	return json.Marshal(i.id)
}

func (i *Identity) UnmarshalJSON(b []byte) error {
	var id *int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	if id == nil {
		*i = Identity{}
		return nil
	}
	*i = Existing(*id)
	return nil
}

// identityColumn scans a primary key column into an Identity.
type identityColumn struct{ dst *Identity }

func (c identityColumn) Scan(src any) error {
	var n sql.NullInt64
	if err := n.Scan(src); err != nil {
		return err
	}
	if !n.Valid {
		return fmt.Errorf("primary key is NULL")
	}
	*c.dst = Existing(n.Int64)
	return nil
}
