package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// ChatTarget validates and normalizes the chat_id config value. Accepted
// shapes: a signed integer id, "@name", or a bare name. Usernames are
// returned with the @ stripped, numeric strings as int64.
func ChatTarget(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		if v == 0 {
			return nil, fmt.Errorf("chat_id cannot be 0")
		}
		return int64(v), nil
	case int64:
		if v == 0 {
			return nil, fmt.Errorf("chat_id cannot be 0")
		}
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, fmt.Errorf("chat_id cannot be empty")
		}
		if strings.HasPrefix(s, "@") {
			name := s[1:]
			if name == "" {
				return nil, fmt.Errorf("username cannot be empty after @")
			}
			return name, nil
		}
		if !strings.HasPrefix(s, "-") && !isDigits(s) {
			return s, nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat_id format: %s", s)
		}
		if id == 0 {
			return nil, fmt.Errorf("chat_id cannot be 0")
		}
		return id, nil
	}
	return nil, fmt.Errorf("chat_id must be int or string, got %T", raw)
}

// APIID validates the Telegram api_id: any value coercible to a positive
// integer.
func APIID(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		if v <= 0 {
			return 0, fmt.Errorf("api_id must be a positive integer")
		}
		return v, nil
	case int64:
		if v <= 0 {
			return 0, fmt.Errorf("api_id must be a positive integer")
		}
		return int(v), nil
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid api_id: %s", v)
		}
		if id <= 0 {
			return 0, fmt.Errorf("api_id must be a positive integer")
		}
		return id, nil
	}
	return 0, fmt.Errorf("invalid api_id: %v", raw)
}

// APIHash validates the Telegram api_hash: a hex string of at least 20
// characters.
func APIHash(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("api_hash must be string, got %T", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("api_hash cannot be empty")
	}
	if len(s) < 20 {
		return "", fmt.Errorf("api_hash appears to be invalid (too short)")
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", fmt.Errorf("api_hash should be hexadecimal string")
		}
	}
	return s, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
