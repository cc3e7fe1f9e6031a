package oauth1

import "strings"

// formBody is a decoded token-endpoint response plus the raw text it came
// from, kept for diagnostics when required fields turn out to be missing.
type formBody struct {
	raw    string
	values map[string]string
}

func parseFormBody(body []byte) (formBody, error) {
	return formBody{raw: string(body), values: parseOAuthBody(string(body))}, nil
}

// parseOAuthBody splits a form-encoded token response into a map. Parsing is
// deliberately lenient: a pair without "=" maps to the empty string and a
// duplicate key is overwritten, since the provider's body format is not
// formally specified.
func parseOAuthBody(body string) map[string]string {
	values := make(map[string]string)
	for _, item := range strings.Split(body, "&") {
		key, value, _ := strings.Cut(item, "=")
		values[key] = value
	}
	return values
}

// require returns the field names absent from the decoded body. An empty
// value is present; only a missing key counts.
func (b formBody) require(keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := b.values[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
