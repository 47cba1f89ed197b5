package bayarcash

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const MethodName = "bayarcash"

var ErrMalformedReturnURL = errors.New("malformed return url")

// RecoverQuery parses the query of a return URL on which the gateway appended
// its own parameters with a second '?' instead of '&'. Every '?' after the
// first is treated as '&'. On a parse error the values recovered so far are
// returned together with ErrMalformedReturnURL.
func RecoverQuery(rawURI string) (url.Values, error) {
	idx := strings.IndexByte(rawURI, '?')
	if idx < 0 {
		return url.Values{}, nil
	}

	query := rawURI[idx+1:]
	if hash := strings.IndexByte(query, '#'); hash >= 0 {
		query = query[:hash]
	}
	query = strings.ReplaceAll(query, "?", "&")

	values, err := url.ParseQuery(query)
	if err != nil {
		return values, fmt.Errorf("%w: %v", ErrMalformedReturnURL, err)
	}
	return values, nil
}

// IsReturnRequest reports whether a request looks like a gateway return for
// this method; other traffic on the same page must be left alone.
func IsReturnRequest(rawURI string, values url.Values) bool {
	if !strings.Contains(rawURI, "transaction_id") || !strings.Contains(rawURI, "status") {
		return false
	}
	return strings.TrimSpace(values.Get("method")) == MethodName
}

// ReceiptURL is the canonical receipt link for a transaction. It never
// carries gateway parameters.
func ReceiptURL(receiptPage, trxHash string) string {
	return withQuery(receiptPage, map[string]string{
		"method":       MethodName,
		"trx_hash":     trxHash,
		"fct_redirect": "yes",
	})
}

// ReturnURL is the receipt link handed to the gateway when an intent is created.
func ReturnURL(receiptPage, trxHash string, orderID uint64) string {
	return withQuery(receiptPage, map[string]string{
		"method":       MethodName,
		"trx_hash":     trxHash,
		"fct_redirect": "yes",
		"order_id":     fmt.Sprintf("%d", orderID),
	})
}

func withQuery(base string, params map[string]string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
