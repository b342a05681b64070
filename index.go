package tileset

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlPutTileset = `INSERT INTO tilesets (name, source) VALUES (:name, :source) ON CONFLICT (name) DO UPDATE SET source=EXCLUDED.source;`
	sqlDelFlags   = `DELETE FROM flags WHERE tileset=?;`
	sqlPutFlag    = `INSERT INTO flags (tileset, tile, flag, value) VALUES (:tileset, :tile, :flag, :value);`
)

// TileRef names a tile in some indexed tileset
type TileRef struct {
	Tileset string `db:"tileset"`
	ID      int    `db:"tile"`
}

func (r TileRef) String() string {
	return fmt.Sprintf("%s#%d", r.Tileset, r.ID)
}

// Index is a catalog of tilesets kept in a sqlite database so we can answer
// questions across many tilesets (eg. "which tiles anywhere are walls?")
// without loading them all.
type Index struct {
	filename string
	db       *sqlx.DB
	loader   *Loader
}

// OpenIndex given it's filename (database file) on disk.
// Will create if it doesn't exist. Tilesets read back from the index are
// decoded according to `cfg` (DefaultConfig if nil).
func OpenIndex(fname string, cfg *Config) (*Index, error) {
	if dir := filepath.Dir(fname); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	idx := &Index{db: db, filename: fname, loader: NewLoader(cfg)}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Filename returns the path to the index database on disk
func (i *Index) Filename() string {
	return i.filename
}

// Close the underlying database
func (i *Index) Close() error {
	return i.db.Close()
}

// Put stores tileset `ts` under `name`, replacing anything already there.
func (i *Index) Put(name string, ts *Tileset) error {
	buff := bytes.Buffer{}
	if err := ts.Encode(&buff); err != nil {
		return err
	}

	txn, err := i.db.Beginx()
	if err != nil {
		return err
	}

	_, err = txn.NamedExec(sqlPutTileset, dbTileset{Name: name, Source: buff.String()})
	if err != nil {
		txn.Rollback()
		return err
	}

	_, err = txn.Exec(sqlDelFlags, name)
	if err != nil {
		txn.Rollback()
		return err
	}

	for _, id := range ts.IDs() {
		for flag, value := range ts.Flags(id) {
			_, err = txn.NamedExec(sqlPutFlag, newDBFlag(name, id, flag, value))
			if err != nil {
				txn.Rollback()
				return err
			}
		}
	}

	return txn.Commit()
}

// Tileset reads back the tileset stored under `name`
func (i *Index) Tileset(name string) (*Tileset, error) {
	var src string
	err := i.db.Get(&src, "SELECT source FROM tilesets WHERE name=?;", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTileset, name)
	} else if err != nil {
		return nil, err
	}
	return i.loader.Decode(strings.NewReader(src))
}

// Names returns the names of all indexed tilesets, sorted.
func (i *Index) Names() ([]string, error) {
	names := []string{}
	err := i.db.Select(&names, "SELECT name FROM tilesets ORDER BY name;")
	return names, err
}

// Flags returns the flags of tile `id` in tileset `name`.
// Unknown tiles (or tilesets) have no flags.
func (i *Index) Flags(name string, id int) (Flags, error) {
	rows := []dbFlag{}
	err := i.db.Select(&rows, "SELECT tileset, tile, flag, value FROM flags WHERE tileset=? AND tile=?;", name, id)
	if err != nil {
		return nil, err
	}

	result := Flags{}
	for _, r := range rows {
		result[r.Flag] = r.Value
	}
	return result, nil
}

// WithFlag returns every indexed tile whose flag `name` is true, ordered by
// tileset then tile id.
func (i *Index) WithFlag(name string) ([]TileRef, error) {
	refs := []TileRef{}
	err := i.db.Select(
		&refs,
		"SELECT tileset, tile FROM flags WHERE flag=? AND value=1 ORDER BY tileset, tile;",
		name,
	)
	return refs, err
}

// init creates some DB tables for us if they don't exist
func (i *Index) init() error {
	createTilesets := `CREATE TABLE IF NOT EXISTS tilesets(
		name TEXT PRIMARY KEY,
		source TEXT NOT NULL
	    );`
	_, err := i.db.Exec(createTilesets)
	if err != nil {
		return err
	}

	createFlags := `CREATE TABLE IF NOT EXISTS flags(
		tileset TEXT NOT NULL,
		tile INTEGER NOT NULL,
		flag TEXT NOT NULL,
		value BOOLEAN NOT NULL,
		PRIMARY KEY (tileset, tile, flag)
	    );`
	_, err = i.db.Exec(createFlags)
	if err != nil {
		return err
	}

	_, err = i.db.Exec(`CREATE INDEX IF NOT EXISTS flags_by_name ON flags (flag, value);`)
	return err
}

// dbTileset holds the encoded TSX of a tileset
type dbTileset struct {
	Name   string `db:"name"`
	Source string `db:"source"`
}

// dbFlag object encodes a single flag on a single tile.
// (tileset, tile, flag) is the primary key.
type dbFlag struct {
	Tileset string `db:"tileset"`
	Tile    int    `db:"tile"`
	Flag    string `db:"flag"`
	Value   bool   `db:"value"`
}

// newDBFlag crafts a dbFlag struct given it's inputs
func newDBFlag(tileset string, tile int, flag string, value bool) dbFlag {
	return dbFlag{
		Tileset: tileset,
		Tile:    tile,
		Flag:    flag,
		Value:   value,
	}
}
