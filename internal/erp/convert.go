package erp

// Odoo encodes null-ish values as boolean false, many-to-one fields as
// [id, display_name] pairs and numbers as either int or double. These helpers
// coerce the decoded XML-RPC values into usable Go types.

func asRecordList(raw interface{}) []map[string]interface{} {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]interface{}); ok {
			out = append(out, rec)
		}
	}
	return out
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// many2one unpacks an [id, name] pair; false means unset.
func many2one(v interface{}) (int64, string, bool) {
	pair, ok := v.([]interface{})
	if !ok || len(pair) < 2 {
		return 0, "", false
	}
	id, ok := asInt64(pair[0])
	if !ok {
		return 0, "", false
	}
	return id, asString(pair[1]), true
}

// optFloat returns nil for absent values so missing sales months are not
// mistaken for zero.
func optFloat(v interface{}) *float64 {
	if v == nil {
		return nil
	}
	if _, isBool := v.(bool); isBool {
		return nil
	}
	if f, ok := asFloat(v); ok {
		return &f
	}
	return nil
}
