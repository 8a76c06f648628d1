package ipc

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"syscall"
	"time"
)

// ErrDaemonUnavailable reports that nothing is serving the control socket.
var ErrDaemonUnavailable = errors.New("turtile daemon is not running")

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, describeDialError(path, err)
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

func describeDialError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: no socket at %s (start it with: turtile start)", ErrDaemonUnavailable, path)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: %s refused the connection (stale socket; run turtile restart)", ErrDaemonUnavailable, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("connect to %s: permission denied (the daemon belongs to another user)", path)
	default:
		return fmt.Errorf("connect to %s: %w", path, err)
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	return c.client.Call(ServiceName+"."+method, req, resp)
}

// Execute sends a command line to the command engine.
func (c *Client) Execute(line string) (*ExecuteResponse, error) {
	var resp ExecuteResponse
	if err := c.call("Execute", ExecuteRequest{Line: line}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MapWindow registers a window on the active workspace.
func (c *Client) MapWindow(app, title string) (*WindowResponse, error) {
	var resp WindowResponse
	if err := c.call("MapWindow", MapWindowRequest{App: app, Title: title}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UnmapWindow removes a window.
func (c *Client) UnmapWindow(id string) (*WindowResponse, error) {
	var resp WindowResponse
	if err := c.call("UnmapWindow", UnmapWindowRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetWindowTitle renames a window.
func (c *Client) SetWindowTitle(id, title string) (*WindowResponse, error) {
	var resp WindowResponse
	if err := c.call("SetWindowTitle", SetWindowTitleRequest{ID: id, Title: title}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Journal returns up to limit recent commands, newest first.
func (c *Client) Journal(limit int) (*JournalResponse, error) {
	var resp JournalResponse
	if err := c.call("Journal", JournalRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
