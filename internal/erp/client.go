// backend-go/internal/erp/client.go
package erp

import (
	"fmt"
	"strings"

	"github.com/kolo/xmlrpc"

	"github.com/blackdogpanama/pedidos/backend-go/internal/config"
)

// Client is a thin Odoo XML-RPC client: authenticate once, then execute_kw
// against the object endpoint.
type Client struct {
	db       string
	password string
	uid      int64
	object   *xmlrpc.Client
}

// Dial connects and authenticates against the ERP.
func Dial(cfg config.OdooConfig) (*Client, error) {
	url := strings.TrimRight(cfg.URL, "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("odoo url must start with http:// or https://")
	}

	common, err := xmlrpc.NewClient(url+"/xmlrpc/2/common", nil)
	if err != nil {
		return nil, fmt.Errorf("create common client: %w", err)
	}
	defer common.Close()

	var raw interface{}
	args := []interface{}{cfg.Database, cfg.Username, cfg.Password, map[string]interface{}{}}
	if err := common.Call("authenticate", args, &raw); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	uid, ok := asInt64(raw)
	if !ok || uid <= 0 {
		return nil, fmt.Errorf("authentication rejected for %s", cfg.Username)
	}

	object, err := xmlrpc.NewClient(url+"/xmlrpc/2/object", nil)
	if err != nil {
		return nil, fmt.Errorf("create object client: %w", err)
	}

	return &Client{
		db:       cfg.Database,
		password: cfg.Password,
		uid:      uid,
		object:   object,
	}, nil
}

// ExecuteKw invokes model.method with positional args and keyword options,
// decoding the reply into out.
func (c *Client) ExecuteKw(model, method string, args []interface{}, options map[string]interface{}, out *interface{}) error {
	callArgs := []interface{}{c.db, c.uid, c.password, model, method, args}
	if options != nil {
		callArgs = append(callArgs, options)
	}
	if err := c.object.Call("execute_kw", callArgs, out); err != nil {
		return fmt.Errorf("execute %s on %s: %w", method, model, err)
	}
	return nil
}

// SearchRead is the common search_read call returning record maps.
func (c *Client) SearchRead(model string, domain []interface{}, fields []string, options map[string]interface{}) ([]map[string]interface{}, error) {
	if options == nil {
		options = map[string]interface{}{}
	}
	options["fields"] = fields

	var raw interface{}
	if err := c.ExecuteKw(model, "search_read", []interface{}{domain}, options, &raw); err != nil {
		return nil, err
	}
	return asRecordList(raw), nil
}

// Read fetches records by id.
func (c *Client) Read(model string, ids []int64, fields []string, options map[string]interface{}) ([]map[string]interface{}, error) {
	if options == nil {
		options = map[string]interface{}{}
	}
	options["fields"] = fields

	idArgs := make([]interface{}, len(ids))
	for i, id := range ids {
		idArgs[i] = id
	}

	var raw interface{}
	if err := c.ExecuteKw(model, "read", []interface{}{idArgs}, options, &raw); err != nil {
		return nil, err
	}
	return asRecordList(raw), nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	if c.object != nil {
		return c.object.Close()
	}
	return nil
}
