package inventory

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/domain"
)

// productListKeys are the wrapper keys tried, in order, when the product
// list is not a bare array.
var productListKeys = []string{"data", "products"}

// DecodeProducts accepts a bare product array or an object wrapping the
// array under one of productListKeys. Anything else yields an empty list and
// a *DecodeError.
func DecodeProducts(body []byte) (domain.Products, error) {
	body = bytes.TrimSpace(body)

	var list domain.Products
	if err := decodeArray(body, &list); err == nil {
		return list, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return domain.Products{}, &DecodeError{What: "product list", Err: err}
	}
	for _, key := range productListKeys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := decodeArray(raw, &list); err == nil {
			return list, nil
		}
	}
	return domain.Products{}, &DecodeError{What: "product list"}
}

// DecodeProduct accepts a bare product object or one wrapped under "data".
func DecodeProduct(body []byte) (domain.Product, error) {
	var p domain.Product
	if err := decodeWrappedObject(body, "data", &p); err != nil {
		return domain.Product{}, &DecodeError{What: "product", Err: err}
	}
	return p, nil
}

// DecodeRecord accepts {"data": record, ...} as returned by the bon routes,
// or a bare record. A record must carry its items.
func DecodeRecord(body []byte) (bon.Record, error) {
	var rec bon.Record
	if err := decodeWrappedObject(body, "data", &rec); err != nil {
		return bon.Record{}, &DecodeError{What: "withdrawal record", Err: err}
	}
	if rec.Items == nil {
		return bon.Record{}, &DecodeError{What: "withdrawal record"}
	}
	return rec, nil
}

func decodeArray(raw []byte, out *domain.Products) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return &DecodeError{What: "array"}
	}
	var list domain.Products
	if err := json.Unmarshal(raw, &list); err != nil {
		return err
	}
	if list == nil {
		list = domain.Products{}
	}
	*out = list
	return nil
}

func decodeWrappedObject(body []byte, key string, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return &DecodeError{What: "object"}
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return err
	}
	if raw, ok := wrapper[key]; ok {
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
			return json.Unmarshal(trimmed, out)
		}
	}
	return json.Unmarshal(body, out)
}

// errorMessage extracts {"message": "..."} from an error body, falling back
// to the trimmed body text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
