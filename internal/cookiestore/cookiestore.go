// Package cookiestore persists the game service's cookies in SQLite so the
// session survives between runs.
package cookiestore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
)

// Store wraps a *sql.DB holding one row per cookie.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is a stored cookie together with the URL that set it.
type Entry struct {
	URL    *url.URL
	Cookie *http.Cookie
}

// Open opens (or creates) the cookie database at path.
func Open(path string) (*Store, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("cookiestore.Open: %w", err)
	}
	s := &Store{db: sqldb, path: path}
	if err := s.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("cookiestore.Open createSchema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cookies (
		scheme    TEXT NOT NULL,
		host      TEXT NOT NULL,
		name      TEXT NOT NULL,
		path      TEXT NOT NULL,
		value     TEXT NOT NULL,
		domain    TEXT NOT NULL DEFAULT '',
		expires   TEXT,
		secure    INTEGER NOT NULL DEFAULT 0,
		http_only INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (host, name, path)
	)`)
	return err
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

// Save upserts cookies set by u. Cookies that are expired or carry a
// negative Max-Age are deleted instead.
func (s *Store) Save(u *url.URL, cookies []*http.Cookie) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cookiestore.Save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, ck := range cookies {
		path := ck.Path
		if path == "" {
			path = defaultPath(u.Path)
		}
		if ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(now)) {
			if _, err := tx.Exec(`DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?`,
				u.Host, ck.Name, path); err != nil {
				return fmt.Errorf("cookiestore.Save delete: %w", err)
			}
			continue
		}

		var expires sql.NullString
		switch {
		case ck.MaxAge > 0:
			expires = sql.NullString{String: now.Add(time.Duration(ck.MaxAge) * time.Second).UTC().Format(time.RFC3339), Valid: true}
		case !ck.Expires.IsZero():
			expires = sql.NullString{String: ck.Expires.UTC().Format(time.RFC3339), Valid: true}
		}

		_, err := tx.Exec(`INSERT INTO cookies (scheme, host, name, path, value, domain, expires, secure, http_only)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (host, name, path) DO UPDATE SET
				scheme = excluded.scheme, value = excluded.value, domain = excluded.domain,
				expires = excluded.expires, secure = excluded.secure, http_only = excluded.http_only`,
			u.Scheme, u.Host, ck.Name, path, ck.Value, ck.Domain, expires, ck.Secure, ck.HttpOnly)
		if err != nil {
			return fmt.Errorf("cookiestore.Save upsert: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns every unexpired cookie. Expired rows are skipped, not deleted.
func (s *Store) Load() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT scheme, host, name, path, value, domain, expires, secure, http_only
		FROM cookies ORDER BY host, name`)
	if err != nil {
		return nil, fmt.Errorf("cookiestore.Load: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var entries []Entry
	for rows.Next() {
		var (
			scheme, host, name, path, value, domain string
			expires                                 sql.NullString
			secure, httpOnly                        bool
		)
		if err := rows.Scan(&scheme, &host, &name, &path, &value, &domain, &expires, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("cookiestore.Load scan: %w", err)
		}
		ck := &http.Cookie{Name: name, Value: value, Path: path, Domain: domain, Secure: secure, HttpOnly: httpOnly}
		if expires.Valid {
			t, err := time.Parse(time.RFC3339, expires.String)
			if err == nil {
				if t.Before(now) {
					continue
				}
				ck.Expires = t
			}
		}
		entries = append(entries, Entry{URL: &url.URL{Scheme: scheme, Host: host, Path: path}, Cookie: ck})
	}
	return entries, rows.Err()
}

// Clear deletes every stored cookie and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM cookies`)
	if err != nil {
		return 0, fmt.Errorf("cookiestore.Clear: %w", err)
	}
	return res.RowsAffected()
}

// defaultPath implements the RFC 6265 default-path of a request path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	for i := len(p) - 1; i > 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return "/"
}

// ---------------------------------------------------------------------------
// Jar
// ---------------------------------------------------------------------------

// Jar is an http.CookieJar that mirrors every SetCookies call into a Store.
type Jar struct {
	mem   *cookiejar.Jar
	store *Store
}

// NewJar returns a Jar preloaded with the cookies in store.
func NewJar(store *Store) (*Jar, error) {
	mem, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookiestore.NewJar: %w", err)
	}
	entries, err := store.Load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		mem.SetCookies(e.URL, []*http.Cookie{e.Cookie})
	}
	return &Jar{mem: mem, store: store}, nil
}

// SetCookies stores cookies in memory and persists them. Persistence
// failures are logged; the in-memory jar stays authoritative for this run.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mem.SetCookies(u, cookies)
	if err := j.store.Save(u, cookies); err != nil {
		slog.Warn("cookie persistence failed", "err", err)
	}
}

// Cookies returns the cookies to send in a request for u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.mem.Cookies(u)
}
