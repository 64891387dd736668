package core

import (
	"unicode/utf16"

	"zombiezen.com/go/sqlite"

	"github.com/shrek82/jlite/handle"
	"github.com/shrek82/jlite/logger"
)

// openFlags are the flags every session is opened with. The journal mode is
// left to Options.
const openFlags = sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenURI

// connPolicy releases engine sessions.
type connPolicy struct {
	log logger.Logger
}

func (connPolicy) Invalid() *sqlite.Conn { return nil }

func (p connPolicy) Close(c *sqlite.Conn) error {
	err := c.Close()
	if err != nil && p.log != nil {
		p.log.Warn("close connection: %v", err)
	}
	return err
}

// Connection owns one SQLite session.
//
// A Connection is either closed or open. The zero Connection is closed and
// may be opened with Open. Connections must not be copied and are not safe
// for concurrent use.
type Connection struct {
	handle handle.Handle[*sqlite.Conn, connPolicy]
	opts   Options
	target string
}

func newConnection(opts *Options) *Connection {
	c := &Connection{}
	if opts != nil {
		c.opts = *opts
	}
	c.opts.Logger = opts.log()
	c.handle.Init(connPolicy{log: c.opts.Logger}, nil)
	return c
}

// Open opens a Connection to target, a file path or MemoryTarget.
// opts may be nil.
func Open(target string, opts *Options) (*Connection, error) {
	c := newConnection(opts)
	if err := c.Open(target); err != nil {
		return nil, err
	}
	return c, nil
}

// OpenWide is Open for a UTF-16 encoded target.
func OpenWide(target []uint16, opts *Options) (*Connection, error) {
	return Open(string(utf16.Decode(target)), opts)
}

// Memory opens a private in-memory database.
func Memory() (*Connection, error) {
	return Open(MemoryTarget, nil)
}

// WideMemory opens a private in-memory database named in UTF-16.
func WideMemory() (*Connection, error) {
	return OpenWide(utf16.Encode([]rune(MemoryTarget)), nil)
}

// openSession opens an engine session for target into slot.
// On failure the engine has already released the half-open session; the
// returned error carries its diagnostic.
func openSession(target string, slot **sqlite.Conn) error {
	conn, err := sqlite.OpenConn(target, openFlags)
	if err != nil {
		return engineError(err)
	}
	*slot = conn
	return nil
}

// configure applies the session options to a freshly opened connection.
func (c *Connection) configure() error {
	if c.opts.BusyTimeout > 0 {
		c.Handle().SetBusyTimeout(c.opts.BusyTimeout)
	}
	pragmas, err := c.opts.pragmas()
	if err != nil {
		return err
	}
	for _, p := range pragmas {
		s, err := Prepare(c, p)
		if err != nil {
			return err
		}
		// journal_mode answers with a row, foreign_keys does not
		_, err = s.Step()
		s.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Open opens a session against target. The new session is built aside and
// swapped in only on success, so a failed Open leaves c exactly as it was.
// A session c previously held is closed once the new one is in place.
func (c *Connection) Open(target string) error {
	temp := newConnection(&c.opts)
	err := openSession(target, temp.handle.SetSlot())
	if err == nil {
		if err = temp.configure(); err != nil {
			temp.handle.Close()
		}
	}
	if err != nil {
		c.log().Error("open %s: %v", target, err)
		return err
	}
	if !c.handle.Valid() {
		c.handle.Init(connPolicy{log: c.log()}, nil)
	}
	handle.Swap(&c.handle, &temp.handle)
	temp.handle.Close()

	c.target = target
	c.log().Info("opened %s", target)
	return nil
}

// OpenWide is Open for a UTF-16 encoded target.
func (c *Connection) OpenWide(target []uint16) error {
	return c.Open(string(utf16.Decode(target)))
}

// Valid reports whether the connection is open.
func (c *Connection) Valid() bool {
	return c.handle.Valid()
}

// Handle returns the engine session without giving up ownership.
// It is nil when the connection is closed.
func (c *Connection) Handle() *sqlite.Conn {
	return c.handle.Get()
}

// Target returns the name the connection was last opened with.
func (c *Connection) Target() string {
	return c.target
}

// Filename returns the file backing the main database, or "" for in-memory
// and temporary databases.
func (c *Connection) Filename() string {
	if !c.Valid() {
		return ""
	}
	s, err := Prepare(c, "select file from pragma_database_list where name = 'main'")
	if err != nil {
		return ""
	}
	defer s.Close()
	if row, err := s.Step(); err != nil || !row {
		return ""
	}
	return s.Text(0)
}

// Close releases the session. Close never fails; a failure reported by the
// engine is logged and otherwise dropped.
func (c *Connection) Close() {
	if !c.Valid() {
		return
	}
	c.handle.Close()
	c.log().Info("closed %s", c.target)
}

// LastInsertId returns the rowid most recently inserted through this session.
func (c *Connection) LastInsertId() (int64, error) {
	if !c.Valid() {
		return 0, ErrConnectionClosed
	}
	return c.Handle().LastInsertRowID(), nil
}

// Prepare prepares query against c and binds values to it.
func (c *Connection) Prepare(query string, values ...any) (*Statement, error) {
	return Prepare(c, query, values...)
}

// Execute prepares query, binds values, runs it to completion and finalizes it.
// The query must not produce rows.
func (c *Connection) Execute(query string, values ...any) error {
	return Execute(c, query, values...)
}

// SetLogger replaces the logger used by c and statements prepared afterwards.
func (c *Connection) SetLogger(l logger.Logger) {
	c.opts.Logger = l
}

func (c *Connection) log() logger.Logger {
	return c.opts.log()
}

// Execute prepares query on conn, binds values, steps it once and finalizes it.
func Execute(conn *Connection, query string, values ...any) error {
	s, err := Prepare(conn, query, values...)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Execute()
}
