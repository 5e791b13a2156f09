// Package warehouse manages the authenticated path to a Databricks SQL
// warehouse: one cached OAuth session and one cached execution channel,
// both lazily created, the channel probed for liveness before reuse.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/databricks/databricks-sdk-go"
	dbsql "github.com/databricks/databricks-sql-go"

	"github.com/bawdo/dbxshell/config"
)

// Session is the slice of the workspace SDK the manager needs: an
// identity check and an access token for the SQL driver.
type Session interface {
	UserName(ctx context.Context) (string, error)
	Token(ctx context.Context) (string, error)
}

// Manager owns at most one Session and one execution channel to a
// single endpoint. Not safe for concurrent use; the shell drives it
// from one goroutine.
type Manager struct {
	endpoint config.Endpoint
	out      io.Writer

	session Session
	db      *sql.DB

	// Credential and driver seams, replaced in tests.
	dial func(host string, interactive bool) (Session, error)
	open func(host, httpPath, token string) (*sql.DB, error)
}

// NewManager creates a manager for the given endpoint. Diagnostics
// (auth fallback notices, identity check output) go to out.
func NewManager(endpoint config.Endpoint, out io.Writer) *Manager {
	return &Manager{
		endpoint: endpoint,
		out:      out,
		dial:     dialWorkspace,
		open:     openChannel,
	}
}

// Authenticate returns the cached session, running the credential flow
// on first use. The external-browser flow is tried first; any error
// there is logged and downgraded to the SDK's default credential chain,
// which may prompt out of band. The result is cached and the flow is
// never rerun.
func (m *Manager) Authenticate(ctx context.Context) (Session, error) {
	if m.session != nil {
		return m.session, nil
	}
	if m.endpoint.Host == "" {
		return nil, &ConfigError{Field: "server hostname", EnvVar: "DATABRICKS_HOST"}
	}
	sess, err := m.dial(m.endpoint.Host, true)
	if err != nil {
		fmt.Fprintf(m.out, "External browser auth failed: %v\n", err)
		sess, err = m.dial(m.endpoint.Host, false)
		if err != nil {
			return nil, err
		}
	}
	m.session = sess
	return sess, nil
}

// TestConnection authenticates and runs an identity check. It exists
// purely for diagnostics and never returns an error: failures are
// logged and reported as false.
func (m *Manager) TestConnection(ctx context.Context) bool {
	sess, err := m.Authenticate(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Authentication failed: %v\n", err)
		return false
	}
	name, err := sess.UserName(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Authentication failed: %v\n", err)
		return false
	}
	fmt.Fprintf(m.out, "Authenticated as: %s\n", name)
	return true
}

// Connect returns an open execution channel. An existing channel is
// probed with a trivial statement and reused when it answers; a failed
// probe discards it silently and a fresh channel is built through
// Authenticate.
func (m *Manager) Connect(ctx context.Context) (*sql.DB, error) {
	if m.db != nil {
		if err := m.probe(ctx); err == nil {
			return m.db, nil
		}
		_ = m.db.Close()
		m.db = nil
	}

	if m.endpoint.HTTPPath == "" {
		return nil, &ConfigError{Field: "warehouse HTTP path", EnvVar: "DATABRICKS_HTTP_PATH"}
	}

	sess, err := m.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	token, err := sess.Token(ctx)
	if err != nil {
		return nil, err
	}
	db, err := m.open(m.endpoint.Host, m.endpoint.HTTPPath, token)
	if err != nil {
		return nil, err
	}
	m.db = db
	return db, nil
}

func (m *Manager) probe(ctx context.Context) error {
	var one int
	return m.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// ExecuteQuery runs the query over a connected channel and collects the
// full result. Submission and fetch failures are wrapped with the cause
// preserved; the caller decides how to present them.
func (m *Manager) ExecuteQuery(ctx context.Context, query string) (*Result, error) {
	db, err := m.Connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	res, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return res, nil
}

func collectRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var data [][]string
	for rows.Next() {
		vals := make([]*sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			vals[i] = &sql.NullString{}
			ptrs[i] = vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &Result{Columns: columns, Rows: data}, nil
}

// Close releases the execution channel if open. Safe to call
// repeatedly; the session needs no explicit teardown.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// --- production seams ---

func dialWorkspace(host string, interactive bool) (Session, error) {
	cfg := &databricks.Config{Host: host}
	if interactive {
		cfg.AuthType = "external-browser"
	}
	w, err := databricks.NewWorkspaceClient(cfg)
	if err != nil {
		return nil, err
	}
	return &workspaceSession{w: w}, nil
}

type workspaceSession struct {
	w *databricks.WorkspaceClient
}

func (s *workspaceSession) UserName(ctx context.Context) (string, error) {
	me, err := s.w.CurrentUser.Me(ctx)
	if err != nil {
		return "", err
	}
	return me.UserName, nil
}

func (s *workspaceSession) Token(ctx context.Context) (string, error) {
	tok, err := s.w.Config.GetToken()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func openChannel(host, httpPath, token string) (*sql.DB, error) {
	hostname := strings.TrimPrefix(host, "https://")
	hostname = strings.TrimPrefix(hostname, "http://")
	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(hostname),
		dbsql.WithPort(443),
		dbsql.WithHTTPPath(httpPath),
		dbsql.WithAccessToken(token),
	)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}
