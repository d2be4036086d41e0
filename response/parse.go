// response/parse.go
package response

import "strings"

// parseHeader extracts the main value of a header such as Content-Type and its
// parameters (like charset). The main value is lower-cased.
func parseHeader(header string) (string, map[string]string) {
	parts := strings.SplitN(header, ";", 2)
	mainValue := strings.ToLower(strings.TrimSpace(parts[0]))

	var params map[string]string
	if len(parts) > 1 {
		for _, part := range strings.Split(parts[1], ";") {
			kv := strings.SplitN(part, "=", 2)
			if len(kv) != 2 {
				continue
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.Trim(strings.TrimSpace(kv[1]), "\"")
		}
	}

	return mainValue, params
}
